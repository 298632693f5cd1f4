package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"grvtproxy/internal/exchange"
)

// Ошибки реестра сессий
var (
	// ErrNotReady - сессии ещё не инициализированы; на границе
	// отображается в 503 Service Unavailable
	ErrNotReady = errors.New("exchange sessions are not initialized")

	// ErrAlreadyInitialized - повторный вызов Initialize
	ErrAlreadyInitialized = errors.New("session registry is already initialized")
)

// Dialer конструирует и подключает одну сессию биржи.
// Вынесен в функцию ради подмены в тестах.
type Dialer func(ctx context.Context, cfg exchange.Config) (exchange.Session, error)

// GRVTDialer возвращает Dialer, создающий реальные сессии GRVT
func GRVTDialer(logger *zap.Logger) Dialer {
	return func(ctx context.Context, cfg exchange.Config) (exchange.Session, error) {
		session, err := exchange.NewGRVT(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := session.Connect(ctx); err != nil {
			_ = session.Close()
			return nil, err
		}
		return session, nil
	}
}

// RegistryConfig - параметры инициализации обеих сессий
type RegistryConfig struct {
	Environment string

	ReadCredentials  exchange.Credentials
	TradeCredentials exchange.Credentials

	RateLimit float64
	RateBurst float64
}

// SessionRegistry владеет жизненным циклом двух сессий GRVT:
// read-scoped (маркет-дата, балансы, позиции, история) и
// trade-scoped (создание/отмена ордеров, риск-параметры).
//
// Жизненный цикл: Initialize ровно один раз при старте процесса,
// Close один раз при остановке. Горячая ротация credentials
// не поддерживается. Сам реестр не ретраит: неудачная
// инициализация фатальна для старта.
type SessionRegistry struct {
	dial   Dialer
	logger *zap.Logger

	mu          sync.RWMutex
	read        exchange.Session
	trade       exchange.Session
	initialized bool
}

// NewSessionRegistry создаёт пустой (не готовый) реестр
func NewSessionRegistry(dial Dialer, logger *zap.Logger) *SessionRegistry {
	return &SessionRegistry{
		dial:   dial,
		logger: logger,
	}
}

// Initialize конструирует обе сессии. До успешного завершения
// ReadSession и TradeSession возвращают ErrNotReady.
//
// При ошибке на второй сессии первая закрывается: частично
// инициализированный шлюз запросы не обслуживает.
func (r *SessionRegistry) Initialize(ctx context.Context, cfg RegistryConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return ErrAlreadyInitialized
	}

	r.logger.Info("initializing read session", zap.String("env", cfg.Environment))
	read, err := r.dial(ctx, exchange.Config{
		Environment: cfg.Environment,
		Role:        exchange.RoleRead,
		Credentials: cfg.ReadCredentials,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
	})
	if err != nil {
		return err
	}

	r.logger.Info("initializing trade session", zap.String("env", cfg.Environment))
	trade, err := r.dial(ctx, exchange.Config{
		Environment: cfg.Environment,
		Role:        exchange.RoleTrade,
		Credentials: cfg.TradeCredentials,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
	})
	if err != nil {
		if closeErr := read.Close(); closeErr != nil {
			r.logger.Warn("closing read session after failed init", zap.Error(closeErr))
		}
		return err
	}

	r.read = read
	r.trade = trade
	r.initialized = true
	return nil
}

// ReadSession возвращает read-scoped сессию
func (r *SessionRegistry) ReadSession() (exchange.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.initialized {
		return nil, ErrNotReady
	}
	return r.read, nil
}

// TradeSession возвращает trade-scoped сессию
func (r *SessionRegistry) TradeSession() (exchange.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.initialized {
		return nil, ErrNotReady
	}
	return r.trade, nil
}

// Ready сообщает, завершилась ли инициализация
func (r *SessionRegistry) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Close освобождает обе сессии. Идемпотентен и безопасен,
// даже если Initialize никогда не вызывался или не завершился.
func (r *SessionRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if r.read != nil {
		if err := r.read.Close(); err != nil {
			errs = append(errs, err)
		}
		r.read = nil
	}
	if r.trade != nil {
		if err := r.trade.Close(); err != nil {
			errs = append(errs, err)
		}
		r.trade = nil
	}
	r.initialized = false

	return errors.Join(errs...)
}
