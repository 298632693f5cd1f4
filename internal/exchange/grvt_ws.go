package exchange

import (
	"go.uber.org/zap"
)

// grvt_ws.go - подписка на тикеры через маркет-дата поток GRVT
//
// Поток создаётся лениво при первой подписке и живёт до Close сессии.
// Переподключение и восстановление подписок делает StreamManager.

// wsSubscribeRequest - запрос подписки на поток GRVT
type wsSubscribeRequest struct {
	Method string   `json:"method"`
	Stream string   `json:"stream"`
	Feed   []string `json:"feed"`
}

// wsTickerMessage - сообщение потока тикеров
type wsTickerMessage struct {
	Stream string     `json:"stream"`
	Feed   wireTicker `json:"feed"`
}

// SubscribeTicker подписывается на обновления тикера инструмента.
// Callback вызывается из горутины чтения потока; он не должен блокировать.
func (g *GRVT) SubscribeTicker(symbol string, callback func(*Ticker)) error {
	g.callbackMu.Lock()
	g.tickerCallbacks[symbol] = append(g.tickerCallbacks[symbol], callback)
	g.callbackMu.Unlock()

	stream, err := g.ensureStream()
	if err != nil {
		return err
	}

	return stream.Subscribe(wsSubscribeRequest{
		Method: "subscribe",
		Stream: "ticker.s",
		Feed:   []string{symbol},
	})
}

// ensureStream лениво создаёт и подключает маркет-дата поток
func (g *GRVT) ensureStream() (*StreamManager, error) {
	g.streamMu.Lock()
	defer g.streamMu.Unlock()

	if g.stream != nil {
		return g.stream, nil
	}

	stream := NewStreamManager(g.hosts.WSMarket, g.streamCfg, g.logger)
	stream.SetOnMessage(g.handleStreamMessage)

	if err := stream.Connect(); err != nil {
		return nil, &CallError{Op: "subscribe_ticker", Message: err.Error(), Cause: err}
	}

	g.stream = stream
	return stream, nil
}

// handleStreamMessage разбирает входящее сообщение потока
// и раздаёт тикеры подписчикам
func (g *GRVT) handleStreamMessage(raw []byte) {
	var msg wsTickerMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		g.logger.Debug("unparseable stream message", zap.Error(err))
		return
	}
	if msg.Feed.Instrument == "" {
		// Служебное сообщение (ack подписки, heartbeat)
		return
	}

	ticker := msg.Feed.toTicker()

	g.callbackMu.RLock()
	callbacks := g.tickerCallbacks[ticker.Symbol]
	g.callbackMu.RUnlock()

	for _, cb := range callbacks {
		cb(ticker)
	}
}
