package exchange

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StreamConfig - конфигурация переподключения маркет-дата потока
type StreamConfig struct {
	// Начальная задержка перед переподключением
	InitialDelay time.Duration
	// Максимальная задержка (после exponential backoff)
	MaxDelay time.Duration
	// Максимальное количество попыток (0 = бесконечно)
	MaxRetries int
	// Таймаут подключения
	ConnectTimeout time.Duration
	// Интервал ping для проверки соединения
	PingInterval time.Duration
	// Таймаут ожидания записи ping
	PongTimeout time.Duration
}

// DefaultStreamConfig возвращает конфигурацию по умолчанию: 2s, 4s, 8s, 16s
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		InitialDelay:   2 * time.Second,
		MaxDelay:       16 * time.Second,
		MaxRetries:     10,
		ConnectTimeout: 10 * time.Second,
		PingInterval:   30 * time.Second,
		PongTimeout:    10 * time.Second,
	}
}

// StreamState состояние WebSocket соединения
type StreamState int32

const (
	StreamDisconnected StreamState = iota
	StreamConnecting
	StreamConnected
	StreamReconnecting
	StreamClosed
)

func (s StreamState) String() string {
	switch s {
	case StreamDisconnected:
		return "disconnected"
	case StreamConnecting:
		return "connecting"
	case StreamConnected:
		return "connected"
	case StreamReconnecting:
		return "reconnecting"
	case StreamClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StreamManager управляет WebSocket соединением с маркет-дата шлюзом GRVT,
// автоматически переподключаясь при разрывах с exponential backoff.
//
// После переподключения восстанавливает все активные подписки,
// поэтому потребители тикеров не замечают разрыва.
type StreamManager struct {
	wsURL  string
	config StreamConfig
	logger *zap.Logger

	conn   *websocket.Conn
	connMu sync.RWMutex

	state      int32 // atomic StreamState
	retryCount int32 // atomic

	closeChan chan struct{}

	onMessage  func([]byte)
	callbackMu sync.RWMutex

	// Подписки для восстановления после переподключения
	subscriptions   []interface{}
	subscriptionsMu sync.RWMutex
}

// NewStreamManager создаёт новый менеджер маркет-дата потока
func NewStreamManager(wsURL string, config StreamConfig, logger *zap.Logger) *StreamManager {
	return &StreamManager{
		wsURL:         wsURL,
		config:        config,
		logger:        logger,
		closeChan:     make(chan struct{}),
		subscriptions: make([]interface{}, 0),
	}
}

// SetOnMessage устанавливает callback для входящих сообщений
func (m *StreamManager) SetOnMessage(handler func([]byte)) {
	m.callbackMu.Lock()
	m.onMessage = handler
	m.callbackMu.Unlock()
}

// Subscribe отправляет запрос подписки и запоминает его
// для восстановления после переподключения
func (m *StreamManager) Subscribe(sub interface{}) error {
	m.subscriptionsMu.Lock()
	m.subscriptions = append(m.subscriptions, sub)
	m.subscriptionsMu.Unlock()

	if m.State() != StreamConnected {
		// Подписка уйдёт при подключении через resubscribe
		return nil
	}
	return m.send(sub)
}

// State возвращает текущее состояние соединения
func (m *StreamManager) State() StreamState {
	return StreamState(atomic.LoadInt32(&m.state))
}

// IsConnected проверяет, установлено ли соединение
func (m *StreamManager) IsConnected() bool {
	return m.State() == StreamConnected
}

// Connect устанавливает WebSocket соединение и запускает пампы
func (m *StreamManager) Connect() error {
	select {
	case <-m.closeChan:
		return fmt.Errorf("stream manager is closed")
	default:
	}

	atomic.StoreInt32(&m.state, int32(StreamConnecting))

	if err := m.dial(); err != nil {
		atomic.StoreInt32(&m.state, int32(StreamDisconnected))
		return err
	}

	atomic.StoreInt32(&m.state, int32(StreamConnected))
	atomic.StoreInt32(&m.retryCount, 0)

	go m.readPump()
	go m.pingPump()

	m.logger.Info("market data stream connected", zap.String("url", m.wsURL))
	return nil
}

// dial выполняет подключение и восстанавливает подписки
func (m *StreamManager) dial() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.ConnectTimeout)
	defer cancel()

	dialer := websocket.Dialer{
		HandshakeTimeout: m.config.ConnectTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, m.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial error: %w", err)
	}

	m.connMu.Lock()
	m.conn = conn
	m.connMu.Unlock()

	if err := m.resubscribe(); err != nil {
		// Не фатально: подписки могут быть восстановлены позже
		m.logger.Warn("resubscribe failed", zap.Error(err))
	}

	return nil
}

// resubscribe восстанавливает подписки после переподключения
func (m *StreamManager) resubscribe() error {
	m.subscriptionsMu.RLock()
	subs := make([]interface{}, len(m.subscriptions))
	copy(subs, m.subscriptions)
	m.subscriptionsMu.RUnlock()

	for _, sub := range subs {
		if err := m.send(sub); err != nil {
			return fmt.Errorf("resubscribe error: %w", err)
		}
	}

	if len(subs) > 0 {
		m.logger.Info("resubscribed to streams", zap.Int("count", len(subs)))
	}
	return nil
}

// readPump читает сообщения из WebSocket
func (m *StreamManager) readPump() {
	for {
		select {
		case <-m.closeChan:
			return
		default:
		}

		m.connMu.RLock()
		conn := m.conn
		m.connMu.RUnlock()

		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			m.handleDisconnect(err)
			return
		}

		m.callbackMu.RLock()
		onMessage := m.onMessage
		m.callbackMu.RUnlock()

		if onMessage != nil {
			onMessage(message)
		}
	}
}

// pingPump отправляет ping для проверки живости соединения
func (m *StreamManager) pingPump() {
	ticker := time.NewTicker(m.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.closeChan:
			return
		case <-ticker.C:
			m.connMu.RLock()
			conn := m.conn
			m.connMu.RUnlock()

			if conn == nil || m.State() != StreamConnected {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(m.config.PongTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				m.handleDisconnect(err)
				return
			}
		}
	}
}

// handleDisconnect обрабатывает разрыв соединения
func (m *StreamManager) handleDisconnect(err error) {
	select {
	case <-m.closeChan:
		return
	default:
	}

	// Избегаем повторной обработки
	state := m.State()
	if state == StreamReconnecting || state == StreamClosed {
		return
	}

	atomic.StoreInt32(&m.state, int32(StreamReconnecting))

	m.connMu.Lock()
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.connMu.Unlock()

	if err != nil {
		m.logger.Warn("market data stream disconnected", zap.Error(err))
	}

	go m.reconnectLoop()
}

// reconnectLoop выполняет переподключение с exponential backoff
func (m *StreamManager) reconnectLoop() {
	delay := m.config.InitialDelay

	for {
		select {
		case <-m.closeChan:
			return
		default:
		}

		retryCount := atomic.AddInt32(&m.retryCount, 1)

		if m.config.MaxRetries > 0 && int(retryCount) > m.config.MaxRetries {
			m.logger.Error("max reconnect attempts reached",
				zap.Int("max_retries", m.config.MaxRetries))
			atomic.StoreInt32(&m.state, int32(StreamDisconnected))
			return
		}

		m.logger.Info("reconnecting market data stream",
			zap.Duration("delay", delay),
			zap.Int32("attempt", retryCount))

		select {
		case <-m.closeChan:
			return
		case <-time.After(delay):
		}

		if err := m.dial(); err != nil {
			m.logger.Warn("reconnect failed", zap.Error(err))

			delay = delay * 2
			if delay > m.config.MaxDelay {
				delay = m.config.MaxDelay
			}
			continue
		}

		atomic.StoreInt32(&m.state, int32(StreamConnected))
		atomic.StoreInt32(&m.retryCount, 0)

		go m.readPump()
		go m.pingPump()

		m.logger.Info("market data stream reconnected")
		return
	}
}

// send отправляет сообщение через WebSocket
func (m *StreamManager) send(msg interface{}) error {
	m.connMu.RLock()
	conn := m.conn
	m.connMu.RUnlock()

	if conn == nil {
		return fmt.Errorf("no connection")
	}
	return conn.WriteJSON(msg)
}

// Close закрывает соединение и останавливает переподключение.
// Идемпотентен.
func (m *StreamManager) Close() error {
	select {
	case <-m.closeChan:
		return nil
	default:
		close(m.closeChan)
	}

	atomic.StoreInt32(&m.state, int32(StreamClosed))

	m.connMu.Lock()
	defer m.connMu.Unlock()

	if m.conn != nil {
		err := m.conn.Close()
		m.conn = nil
		return err
	}
	return nil
}
