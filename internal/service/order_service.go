package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"grvtproxy/internal/exchange"
	"grvtproxy/internal/models"
	"grvtproxy/pkg/utils"
)

// Ошибки валидации торговых запросов.
// На границе API отображаются в 400 Bad Request.
var (
	ErrInvalidSymbol    = errors.New("invalid instrument symbol")
	ErrInvalidSide      = errors.New("side must be buy or sell")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidOrderType = errors.New("order type must be limit or market")
	ErrPriceRequired    = errors.New("limit order requires a price")
	ErrInvalidPrice     = errors.New("price must be positive")

	// ErrNoOrderIdentifier - запрос отмены без единого идентификатора
	ErrNoOrderIdentifier = errors.New("cancel request carries neither order_id nor client_order_id")
)

// OrderService реализует торговые операции поверх trade-сессии.
//
// Ключевой инвариант: client_order_id генерируется ДО отправки
// запроса на биржу. Даже при транспортном сбое на полпути id уже
// известен и залогирован, поэтому судьбу ордера можно выяснить
// и отменить его именно по этому id.
type OrderService struct {
	sessions    SessionProvider
	cancelTTLMs int64
	logger      *zap.Logger
}

// NewOrderService создаёт торговый сервис.
// cancelTTLMs - срок жизни запросов отмены на стороне биржи.
func NewOrderService(sessions SessionProvider, cancelTTLMs int64, logger *zap.Logger) *OrderService {
	return &OrderService{
		sessions:    sessions,
		cancelTTLMs: cancelTTLMs,
		logger:      logger,
	}
}

// newClientOrderID возвращает случайный uint32 из crypto/rand.
// Генерация криптографическая, чтобы конкурентные запросы
// не получали предсказуемо близкие id.
func newClientOrderID() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("generating client order id: %w", err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// normalizeOrder валидирует запрос и приводит его к каноничному виду.
// Невалидный запрос отвергается до какого-либо обращения к бирже.
func normalizeOrder(req *models.OrderRequest) error {
	if req.Symbol == "" {
		req.Symbol = models.DefaultSymbol
	}
	if err := utils.ValidateSymbol(req.Symbol); err != nil {
		return ErrInvalidSymbol
	}

	switch req.Side {
	case exchange.SideBuy, exchange.SideSell:
	default:
		return ErrInvalidSide
	}

	if !req.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if req.OrderType == "" {
		req.OrderType = exchange.OrderTypeLimit
	}
	switch req.OrderType {
	case exchange.OrderTypeLimit:
		if req.Price == nil {
			return ErrPriceRequired
		}
		if !req.Price.IsPositive() {
			return ErrInvalidPrice
		}
	case exchange.OrderTypeMarket:
		// цена для market ордера не имеет смысла - игнорируем присланную
		req.Price = nil
	default:
		return ErrInvalidOrderType
	}

	return nil
}

// SubmitOrder валидирует запрос, генерирует client_order_id и
// отправляет ордер через trade-сессию.
func (s *OrderService) SubmitOrder(ctx context.Context, req models.OrderRequest) (*models.OrderTicket, error) {
	if err := normalizeOrder(&req); err != nil {
		return nil, err
	}

	session, err := s.sessions.TradeSession()
	if err != nil {
		return nil, err
	}

	clientOrderID, err := newClientOrderID()
	if err != nil {
		return nil, err
	}

	s.logger.Info("submitting order",
		zap.Uint32("client_order_id", clientOrderID),
		zap.String("symbol", req.Symbol),
		zap.String("side", req.Side),
		zap.String("order_type", req.OrderType),
		zap.String("amount", req.Amount.String()))

	ack, err := session.CreateOrder(ctx, exchange.CreateOrderParams{
		Symbol:        req.Symbol,
		Side:          req.Side,
		OrderType:     req.OrderType,
		Amount:        req.Amount,
		Price:         req.Price,
		ClientOrderID: clientOrderID,
	})
	if err != nil {
		// id уже сгенерирован и залогирован: по нему можно выяснить
		// судьбу ордера, даже если биржа его успела принять
		s.logger.Error("order submission failed",
			zap.Uint32("client_order_id", clientOrderID),
			zap.Error(err))
		return nil, err
	}

	return &models.OrderTicket{
		ClientOrderID: clientOrderID,
		Ack:           ack,
	}, nil
}

// CancelOrder отменяет один ордер. При обоих идентификаторах
// используется биржевой order_id: он авторитетен, client_order_id
// лишь локальная корреляция.
func (s *OrderService) CancelOrder(ctx context.Context, req models.CancelRequest) (*exchange.CancelAck, error) {
	if req.OrderID == "" && req.ClientOrderID == 0 {
		return nil, ErrNoOrderIdentifier
	}

	session, err := s.sessions.TradeSession()
	if err != nil {
		return nil, err
	}

	params := exchange.CancelOrderParams{
		OrderID:       req.OrderID,
		ClientOrderID: req.ClientOrderID,
		TimeToLiveMs:  s.cancelTTLMs,
	}
	if params.OrderID != "" {
		params.ClientOrderID = 0
	}

	s.logger.Info("cancelling order",
		zap.String("order_id", params.OrderID),
		zap.Uint32("client_order_id", params.ClientOrderID))

	return session.CancelOrder(ctx, params)
}

// CancelAllOrders отменяет все открытые ордера аккаунта
func (s *OrderService) CancelAllOrders(ctx context.Context) (*exchange.CancelAllAck, error) {
	session, err := s.sessions.TradeSession()
	if err != nil {
		return nil, err
	}

	s.logger.Info("cancelling all orders")
	return session.CancelAllOrders(ctx, s.cancelTTLMs)
}

// OpenOrders возвращает неисполненные ордера по символу.
// Чтение идёт через read-сессию.
func (s *OrderService) OpenOrders(ctx context.Context, symbol string) ([]exchange.Order, error) {
	if symbol == "" {
		symbol = models.DefaultSymbol
	}
	if err := utils.ValidateSymbol(symbol); err != nil {
		return nil, ErrInvalidSymbol
	}

	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.FetchOpenOrders(ctx, symbol)
}
