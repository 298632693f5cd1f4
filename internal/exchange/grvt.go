package exchange

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"grvtproxy/pkg/crypto"
	"grvtproxy/pkg/ratelimit"
	"grvtproxy/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Окружения GRVT
const (
	EnvTestnet = "testnet"
	EnvProd    = "prod"
)

// Hosts - адреса шлюзов GRVT для одного окружения
type Hosts struct {
	MarketData string
	TradeData  string
	Edge       string
	WSMarket   string
}

// HostsForEnv возвращает адреса шлюзов для окружения
func HostsForEnv(env string) (Hosts, error) {
	switch env {
	case EnvTestnet:
		return Hosts{
			MarketData: "https://market-data.testnet.grvt.io",
			TradeData:  "https://trades.testnet.grvt.io",
			Edge:       "https://edge.testnet.grvt.io",
			WSMarket:   "wss://market-data.testnet.grvt.io/ws",
		}, nil
	case EnvProd:
		return Hosts{
			MarketData: "https://market-data.grvt.io",
			TradeData:  "https://trades.grvt.io",
			Edge:       "https://edge.grvt.io",
			WSMarket:   "wss://market-data.grvt.io/ws",
		}, nil
	default:
		return Hosts{}, fmt.Errorf("unknown GRVT environment: %q", env)
	}
}

// Credentials - credential-набор одной сессии
type Credentials struct {
	APIKey           string
	PrivateKey       string
	TradingAccountID string
}

// Config - параметры конструирования сессии GRVT
type Config struct {
	Environment string
	Role        Role
	Credentials Credentials

	// Лимит исходящих запросов (запросов/сек и burst);
	// нулевые значения заменяются дефолтами limiter'а
	RateLimit float64
	RateBurst float64

	HTTP   HTTPClientConfig
	Stream StreamConfig
}

// GRVT реализует Session поверх REST и WebSocket шлюзов GRVT.
//
// Экземпляр потокобезопасен. Cookie авторизации обновляется лениво
// при истечении; остальное состояние после Connect только читается.
type GRVT struct {
	role   Role
	env    string
	creds  Credentials
	hosts  Hosts
	logger *zap.Logger

	httpClient *http.Client
	limiter    *ratelimit.RateLimiter

	// Cookie сессии, полученная при login
	cookieMu     sync.RWMutex
	cookie       string
	cookieExpiry time.Time

	// Маркет-дата поток (создаётся при первой подписке)
	streamMu        sync.Mutex
	stream          *StreamManager
	streamCfg       StreamConfig
	tickerCallbacks map[string][]func(*Ticker)
	callbackMu      sync.RWMutex
}

// NewGRVT создаёт неподключенную сессию GRVT
func NewGRVT(cfg Config, logger *zap.Logger) (*GRVT, error) {
	hosts, err := HostsForEnv(cfg.Environment)
	if err != nil {
		return nil, err
	}

	httpCfg := cfg.HTTP
	if httpCfg == (HTTPClientConfig{}) {
		httpCfg = DefaultHTTPClientConfig()
	}

	streamCfg := cfg.Stream
	if streamCfg == (StreamConfig{}) {
		streamCfg = DefaultStreamConfig()
	}

	return &GRVT{
		role:            cfg.Role,
		env:             cfg.Environment,
		creds:           cfg.Credentials,
		hosts:           hosts,
		logger:          logger.With(zap.String("session", string(cfg.Role))),
		httpClient:      NewHTTPClient(httpCfg),
		limiter:         ratelimit.NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
		streamCfg:       streamCfg,
		tickerCallbacks: make(map[string][]func(*Ticker)),
	}, nil
}

// Role возвращает назначение сессии
func (g *GRVT) Role() Role {
	return g.role
}

// Connect выполняет handshake с auth-шлюзом: обменивает API ключ
// на session cookie. Ошибка здесь означает неполные или отвергнутые
// credentials и фатальна для старта процесса.
func (g *GRVT) Connect(ctx context.Context) error {
	if g.creds.APIKey == "" {
		return fmt.Errorf("grvt %s session: api key is empty", g.role)
	}
	if g.creds.TradingAccountID == "" {
		return fmt.Errorf("grvt %s session: trading account id is empty", g.role)
	}

	if err := g.login(ctx); err != nil {
		return fmt.Errorf("grvt %s session handshake: %w", g.role, err)
	}

	g.logger.Info("session connected",
		zap.String("env", g.env),
		zap.String("account_id", g.creds.TradingAccountID))
	return nil
}

// login обменивает API ключ на cookie сессии
func (g *GRVT) login(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.hosts.Edge+"/auth/api_key/login", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Cookie", "rm=true")
	req.Header.Set("X-Api-Key", g.creds.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth gateway returned status %d", resp.StatusCode)
	}

	for _, c := range resp.Cookies() {
		if c.Name == "gravity" {
			g.cookieMu.Lock()
			g.cookie = c.Name + "=" + c.Value
			g.cookieExpiry = c.Expires
			g.cookieMu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("auth gateway response carries no session cookie")
}

// sessionCookie возвращает актуальную cookie, обновляя её при истечении
func (g *GRVT) sessionCookie(ctx context.Context) (string, error) {
	g.cookieMu.RLock()
	cookie := g.cookie
	expiry := g.cookieExpiry
	g.cookieMu.RUnlock()

	if cookie != "" && (expiry.IsZero() || time.Until(expiry) > time.Minute) {
		return cookie, nil
	}

	if err := g.login(ctx); err != nil {
		return "", err
	}

	g.cookieMu.RLock()
	defer g.cookieMu.RUnlock()
	return g.cookie, nil
}

// grvtErrorBody - формат ошибки в ответах GRVT
type grvtErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// doRequest выполняет POST-JSON запрос к шлюзу GRVT.
// Все ошибки (транспорт, не-2xx, отказ биржи) заворачиваются в CallError.
func (g *GRVT) doRequest(ctx context.Context, op, host, path string, payload, out interface{}) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return &CallError{Op: op, Message: "rate limiter wait: " + err.Error(), Cause: err}
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return &CallError{Op: op, Message: "marshal request: " + err.Error(), Cause: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+path, bytes.NewReader(body))
	if err != nil {
		return &CallError{Op: op, Message: err.Error(), Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Grvt-Account-Id", g.creds.TradingAccountID)

	cookie, err := g.sessionCookie(ctx)
	if err != nil {
		return &CallError{Op: op, Message: "session auth: " + err.Error(), Cause: err}
	}
	req.Header.Set("Cookie", cookie)

	callStart := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		observeExchangeCall(op, "transport_error", time.Since(callStart))
		return &CallError{Op: op, Message: err.Error(), Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		observeExchangeCall(op, "transport_error", time.Since(callStart))
		return &CallError{Op: op, Message: "read response: " + err.Error(), Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody grvtErrorBody
		_ = json.Unmarshal(respBody, &errBody)
		observeExchangeCall(op, "rejected", time.Since(callStart))
		msg := errBody.Message
		if msg == "" {
			msg = "exchange returned status " + strconv.Itoa(resp.StatusCode)
		}
		return &CallError{Op: op, Code: strconv.Itoa(errBody.Code), Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			observeExchangeCall(op, "decode_error", time.Since(callStart))
			return &CallError{Op: op, Message: "decode response: " + err.Error(), Cause: err}
		}
	}

	observeExchangeCall(op, "ok", time.Since(callStart))
	return nil
}

// ============ Разбор wire-представления ============
//
// GRVT сериализует числа строками, а timestamp - наносекундами Unix.

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseOptDecimal(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func parseNanoTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ns, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return utils.FromUnixNanos(ns)
}

func parseClientOrderID(s string) uint32 {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(id)
}

// ============ Market data ============

type wireInstrument struct {
	Instrument      string `json:"instrument"`
	Base            string `json:"base"`
	Quote           string `json:"quote"`
	Kind            string `json:"kind"`
	TickSize        string `json:"tick_size"`
	MinSize         string `json:"min_size"`
	MaxPositionSize string `json:"max_position_size"`
}

// FetchMarkets возвращает список активных PERPETUAL инструментов
func (g *GRVT) FetchMarkets(ctx context.Context) ([]Market, error) {
	var resp struct {
		Result []wireInstrument `json:"result"`
	}
	payload := map[string]interface{}{
		"kind":      []string{"PERPETUAL"},
		"is_active": true,
	}
	if err := g.doRequest(ctx, "fetch_markets", g.hosts.MarketData, "/full/v1/instruments", payload, &resp); err != nil {
		return nil, err
	}

	markets := make([]Market, 0, len(resp.Result))
	for _, w := range resp.Result {
		markets = append(markets, Market{
			Symbol:          w.Instrument,
			Base:            w.Base,
			Quote:           w.Quote,
			Kind:            w.Kind,
			TickSize:        parseDecimal(w.TickSize),
			MinSize:         parseDecimal(w.MinSize),
			MaxPositionSize: parseOptDecimal(w.MaxPositionSize),
		})
	}
	return markets, nil
}

type wireTicker struct {
	Instrument  string `json:"instrument"`
	BestBid     string `json:"best_bid_price"`
	BestAsk     string `json:"best_ask_price"`
	LastPrice   string `json:"last_price"`
	MarkPrice   string `json:"mark_price"`
	FundingRate string `json:"funding_rate_8h_curr"`
	EventTime   string `json:"event_time"`
}

func (w wireTicker) toTicker() *Ticker {
	return &Ticker{
		Symbol:      w.Instrument,
		BidPrice:    parseDecimal(w.BestBid),
		AskPrice:    parseDecimal(w.BestAsk),
		LastPrice:   parseDecimal(w.LastPrice),
		MarkPrice:   parseOptDecimal(w.MarkPrice),
		FundingRate: parseOptDecimal(w.FundingRate),
		Timestamp:   parseNanoTime(w.EventTime),
	}
}

// FetchTicker возвращает текущий тикер инструмента
func (g *GRVT) FetchTicker(ctx context.Context, symbol string) (*Ticker, error) {
	var resp struct {
		Result wireTicker `json:"result"`
	}
	payload := map[string]string{"instrument": symbol}
	if err := g.doRequest(ctx, "fetch_ticker", g.hosts.MarketData, "/full/v1/ticker", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Result.toTicker(), nil
}

type wireBookLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// FetchOrderBook возвращает срез стакана заданной глубины
func (g *GRVT) FetchOrderBook(ctx context.Context, symbol string, limit int) (*OrderBook, error) {
	var resp struct {
		Result struct {
			Instrument string          `json:"instrument"`
			Bids       []wireBookLevel `json:"bids"`
			Asks       []wireBookLevel `json:"asks"`
			EventTime  string          `json:"event_time"`
		} `json:"result"`
	}
	payload := map[string]interface{}{
		"instrument": symbol,
		"depth":      limit,
	}
	if err := g.doRequest(ctx, "fetch_order_book", g.hosts.MarketData, "/full/v1/book", payload, &resp); err != nil {
		return nil, err
	}

	book := &OrderBook{
		Symbol:    resp.Result.Instrument,
		Bids:      make([]PriceLevel, 0, len(resp.Result.Bids)),
		Asks:      make([]PriceLevel, 0, len(resp.Result.Asks)),
		Timestamp: parseNanoTime(resp.Result.EventTime),
	}
	if book.Symbol == "" {
		book.Symbol = symbol
	}
	for _, l := range resp.Result.Bids {
		book.Bids = append(book.Bids, PriceLevel{Price: parseDecimal(l.Price), Size: parseDecimal(l.Size)})
	}
	for _, l := range resp.Result.Asks {
		book.Asks = append(book.Asks, PriceLevel{Price: parseDecimal(l.Price), Size: parseDecimal(l.Size)})
	}
	return book, nil
}

// FetchFundingHistory возвращает историю ставок финансирования.
// sinceNanos == nil означает, что параметр start_time не передаётся вовсе.
func (g *GRVT) FetchFundingHistory(ctx context.Context, symbol string, sinceNanos *int64, limit int) ([]FundingRate, error) {
	payload := map[string]interface{}{
		"instrument": symbol,
		"limit":      limit,
	}
	if sinceNanos != nil {
		payload["start_time"] = strconv.FormatInt(*sinceNanos, 10)
	}

	var resp struct {
		Result []struct {
			Instrument  string `json:"instrument"`
			FundingRate string `json:"funding_rate"`
			MarkPrice   string `json:"mark_price"`
			FundingTime string `json:"funding_time"`
		} `json:"result"`
	}
	if err := g.doRequest(ctx, "fetch_funding_history", g.hosts.MarketData, "/full/v1/funding", payload, &resp); err != nil {
		return nil, err
	}

	rates := make([]FundingRate, 0, len(resp.Result))
	for _, w := range resp.Result {
		rates = append(rates, FundingRate{
			Symbol:    w.Instrument,
			Rate:      parseDecimal(w.FundingRate),
			MarkPrice: parseOptDecimal(w.MarkPrice),
			Timestamp: parseNanoTime(w.FundingTime),
		})
	}
	return rates, nil
}

// ============ Account ============

// FetchBalance возвращает балансы кошелька (free/used/total)
func (g *GRVT) FetchBalance(ctx context.Context) ([]Balance, error) {
	var resp struct {
		Result []struct {
			Currency       string `json:"currency"`
			Balance        string `json:"balance"`
			LockedBalance  string `json:"locked_balance"`
		} `json:"result"`
	}
	payload := map[string]string{"sub_account_id": g.creds.TradingAccountID}
	if err := g.doRequest(ctx, "fetch_balance", g.hosts.TradeData, "/full/v1/balances", payload, &resp); err != nil {
		return nil, err
	}

	balances := make([]Balance, 0, len(resp.Result))
	for _, w := range resp.Result {
		total := parseDecimal(w.Balance)
		used := parseDecimal(w.LockedBalance)
		balances = append(balances, Balance{
			Currency: w.Currency,
			Free:     total.Sub(used),
			Used:     used,
			Total:    total,
		})
	}
	return balances, nil
}

// FetchPositions возвращает открытые позиции по списку символов
func (g *GRVT) FetchPositions(ctx context.Context, symbols []string) ([]Position, error) {
	var resp struct {
		Result []struct {
			Instrument    string `json:"instrument"`
			Size          string `json:"size"`
			EntryPrice    string `json:"entry_price"`
			MarkPrice     string `json:"mark_price"`
			UnrealizedPnl string `json:"unrealized_pnl"`
			EventTime     string `json:"event_time"`
		} `json:"result"`
	}
	payload := map[string]interface{}{
		"sub_account_id": g.creds.TradingAccountID,
		"kind":           []string{"PERPETUAL"},
		"instruments":    symbols,
	}
	if err := g.doRequest(ctx, "fetch_positions", g.hosts.TradeData, "/full/v1/positions", payload, &resp); err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(resp.Result))
	for _, w := range resp.Result {
		size := parseDecimal(w.Size)
		side := "long"
		if size.IsNegative() {
			side = "short"
			size = size.Neg()
		}
		positions = append(positions, Position{
			Symbol:        w.Instrument,
			Side:          side,
			Size:          size,
			EntryPrice:    parseDecimal(w.EntryPrice),
			MarkPrice:     parseOptDecimal(w.MarkPrice),
			UnrealizedPnl: parseOptDecimal(w.UnrealizedPnl),
			UpdatedAt:     parseNanoTime(w.EventTime),
		})
	}
	return positions, nil
}

// GetAccountSummary возвращает сводку аккаунта.
// Отсутствующие маржинальные поля остаются nil: сводка носит
// информационный характер, частичные данные допустимы.
func (g *GRVT) GetAccountSummary(ctx context.Context, summaryType string) (*AccountSummary, error) {
	if summaryType == "" {
		summaryType = SummaryTypeSubAccount
	}

	path := "/full/v1/account_summary"
	if summaryType == "aggregated" {
		path = "/full/v1/aggregated_account_summary"
	}

	var resp struct {
		Result struct {
			SubAccountID                   string `json:"sub_account_id"`
			TotalEquity                    string `json:"total_equity"`
			AvailableBalance               string `json:"available_balance"`
			InitialMargin                  string `json:"initial_margin"`
			MaintenanceMargin              string `json:"maintenance_margin"`
			DeriskMargin                   string `json:"derisk_margin"`
			DeriskToMaintenanceMarginRatio string `json:"derisk_to_maintenance_margin_ratio"`
		} `json:"result"`
	}
	payload := map[string]string{"sub_account_id": g.creds.TradingAccountID}
	if err := g.doRequest(ctx, "get_account_summary", g.hosts.TradeData, path, payload, &resp); err != nil {
		return nil, err
	}

	r := resp.Result
	return &AccountSummary{
		AccountID:                      r.SubAccountID,
		SummaryType:                    summaryType,
		TotalEquity:                    parseOptDecimal(r.TotalEquity),
		AvailableBalance:               parseOptDecimal(r.AvailableBalance),
		InitialMargin:                  parseOptDecimal(r.InitialMargin),
		MaintenanceMargin:              parseOptDecimal(r.MaintenanceMargin),
		DeriskMargin:                   parseOptDecimal(r.DeriskMargin),
		DeriskToMaintenanceMarginRatio: parseOptDecimal(r.DeriskToMaintenanceMarginRatio),
	}, nil
}

// ============ Trading ============

type wireOrder struct {
	OrderID       string `json:"order_id"`
	ClientOrderID string `json:"client_order_id"`
	Instrument    string `json:"instrument"`
	Side          string `json:"side"`
	OrderType     string `json:"order_type"`
	State         string `json:"state"`
	Size          string `json:"size"`
	FilledSize    string `json:"filled_size"`
	LimitPrice    string `json:"limit_price"`
	CreateTime    string `json:"create_time"`
	UpdateTime    string `json:"update_time"`
}

func (w wireOrder) toOrder() Order {
	return Order{
		OrderID:       w.OrderID,
		ClientOrderID: parseClientOrderID(w.ClientOrderID),
		Symbol:        w.Instrument,
		Side:          w.Side,
		OrderType:     w.OrderType,
		Status:        w.State,
		Amount:        parseDecimal(w.Size),
		Filled:        parseDecimal(w.FilledSize),
		Price:         parseOptDecimal(w.LimitPrice),
		CreatedAt:     parseNanoTime(w.CreateTime),
		UpdatedAt:     parseNanoTime(w.UpdateTime),
	}
}

// CreateOrder отправляет подписанный ордер на биржу.
// ClientOrderID уже сгенерирован вызывающим слоем и прикладывается
// к запросу для корреляции.
func (g *GRVT) CreateOrder(ctx context.Context, params CreateOrderParams) (*OrderAck, error) {
	order := map[string]interface{}{
		"sub_account_id":  g.creds.TradingAccountID,
		"instrument":      params.Symbol,
		"side":            params.Side,
		"order_type":      params.OrderType,
		"size":            params.Amount.String(),
		"client_order_id": strconv.FormatUint(uint64(params.ClientOrderID), 10),
	}
	if params.Price != nil {
		order["limit_price"] = params.Price.String()
	}

	// Биржа требует подпись payload приватным ключом сессии
	orderBytes, err := json.Marshal(order)
	if err != nil {
		return nil, &CallError{Op: "create_order", Message: "marshal order: " + err.Error(), Cause: err}
	}
	signature, err := crypto.SignPayload(g.creds.PrivateKey, orderBytes)
	if err != nil {
		return nil, &CallError{Op: "create_order", Message: "sign order: " + err.Error(), Cause: err}
	}

	payload := map[string]interface{}{
		"order":     order,
		"signature": signature,
	}

	var resp struct {
		Result wireOrder `json:"result"`
	}
	if err := g.doRequest(ctx, "create_order", g.hosts.TradeData, "/full/v1/create_order", payload, &resp); err != nil {
		return nil, err
	}

	r := resp.Result
	ack := &OrderAck{
		OrderID:       r.OrderID,
		ClientOrderID: params.ClientOrderID,
		Symbol:        params.Symbol,
		Side:          params.Side,
		OrderType:     params.OrderType,
		Status:        r.State,
		Amount:        params.Amount,
		Price:         params.Price,
		CreatedAt:     parseNanoTime(r.CreateTime),
	}
	if ack.CreatedAt.IsZero() {
		ack.CreatedAt = time.Now().UTC()
	}
	return ack, nil
}

// CancelOrder отменяет один ордер. Биржевой OrderID имеет приоритет;
// при его отсутствии биржа сама резолвит client_order_id.
func (g *GRVT) CancelOrder(ctx context.Context, params CancelOrderParams) (*CancelAck, error) {
	payload := map[string]interface{}{
		"sub_account_id":  g.creds.TradingAccountID,
		"time_to_live_ms": strconv.FormatInt(params.TimeToLiveMs, 10),
	}
	if params.OrderID != "" {
		payload["order_id"] = params.OrderID
	} else {
		payload["client_order_id"] = strconv.FormatUint(uint64(params.ClientOrderID), 10)
	}

	var resp struct {
		Result struct {
			Ack bool `json:"ack"`
		} `json:"result"`
	}
	if err := g.doRequest(ctx, "cancel_order", g.hosts.TradeData, "/full/v1/cancel_order", payload, &resp); err != nil {
		return nil, err
	}

	return &CancelAck{
		OrderID:       params.OrderID,
		ClientOrderID: params.ClientOrderID,
		Success:       resp.Result.Ack,
	}, nil
}

// CancelAllOrders отменяет все открытые ордера аккаунта
func (g *GRVT) CancelAllOrders(ctx context.Context, timeToLiveMs int64) (*CancelAllAck, error) {
	payload := map[string]interface{}{
		"sub_account_id":  g.creds.TradingAccountID,
		"time_to_live_ms": strconv.FormatInt(timeToLiveMs, 10),
	}

	var resp struct {
		Result struct {
			NumCancelled int `json:"num_cancelled"`
		} `json:"result"`
	}
	if err := g.doRequest(ctx, "cancel_all_orders", g.hosts.TradeData, "/full/v1/cancel_all_orders", payload, &resp); err != nil {
		return nil, err
	}

	return &CancelAllAck{
		Success:        true,
		CancelledCount: resp.Result.NumCancelled,
	}, nil
}

// FetchOpenOrders возвращает неисполненные ордера по символу
func (g *GRVT) FetchOpenOrders(ctx context.Context, symbol string) ([]Order, error) {
	payload := map[string]interface{}{
		"sub_account_id": g.creds.TradingAccountID,
		"kind":           []string{"PERPETUAL"},
	}
	if symbol != "" {
		payload["instruments"] = []string{symbol}
	}

	var resp struct {
		Result []wireOrder `json:"result"`
	}
	if err := g.doRequest(ctx, "fetch_open_orders", g.hosts.TradeData, "/full/v1/open_orders", payload, &resp); err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(resp.Result))
	for _, w := range resp.Result {
		orders = append(orders, w.toOrder())
	}
	return orders, nil
}

// FetchOrderHistory возвращает историю ордеров
func (g *GRVT) FetchOrderHistory(ctx context.Context, limit int) ([]Order, error) {
	payload := map[string]interface{}{
		"sub_account_id": g.creds.TradingAccountID,
		"kind":           []string{"PERPETUAL"},
		"limit":          limit,
	}

	var resp struct {
		Result []wireOrder `json:"result"`
	}
	if err := g.doRequest(ctx, "fetch_order_history", g.hosts.TradeData, "/full/v1/order_history", payload, &resp); err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(resp.Result))
	for _, w := range resp.Result {
		orders = append(orders, w.toOrder())
	}
	return orders, nil
}

// FetchMyTrades возвращает историю собственных сделок
func (g *GRVT) FetchMyTrades(ctx context.Context, symbol string, limit int) ([]Trade, error) {
	payload := map[string]interface{}{
		"sub_account_id": g.creds.TradingAccountID,
		"limit":          limit,
	}
	if symbol != "" {
		payload["instrument"] = symbol
	}

	var resp struct {
		Result []struct {
			TradeID    string `json:"trade_id"`
			OrderID    string `json:"order_id"`
			Instrument string `json:"instrument"`
			Side       string `json:"side"`
			Price      string `json:"price"`
			Size       string `json:"size"`
			Fee        string `json:"fee"`
			IsTaker    bool   `json:"is_taker"`
			EventTime  string `json:"event_time"`
		} `json:"result"`
	}
	if err := g.doRequest(ctx, "fetch_my_trades", g.hosts.TradeData, "/full/v1/fill_history", payload, &resp); err != nil {
		return nil, err
	}

	trades := make([]Trade, 0, len(resp.Result))
	for _, w := range resp.Result {
		trades = append(trades, Trade{
			TradeID:   w.TradeID,
			OrderID:   w.OrderID,
			Symbol:    w.Instrument,
			Side:      w.Side,
			Price:     parseDecimal(w.Price),
			Size:      parseDecimal(w.Size),
			Fee:       parseDecimal(w.Fee),
			IsMaker:   !w.IsTaker,
			Timestamp: parseNanoTime(w.EventTime),
		})
	}
	return trades, nil
}

// FetchAccountHistory возвращает журнал движений средств аккаунта
func (g *GRVT) FetchAccountHistory(ctx context.Context, limit int) ([]LedgerEntry, error) {
	payload := map[string]interface{}{
		"sub_account_id": g.creds.TradingAccountID,
		"limit":          limit,
	}

	var resp struct {
		Result []struct {
			TxID      string `json:"tx_id"`
			TxType    string `json:"tx_type"`
			Currency  string `json:"currency"`
			Amount    string `json:"amount"`
			EventTime string `json:"event_time"`
		} `json:"result"`
	}
	if err := g.doRequest(ctx, "fetch_account_history", g.hosts.TradeData, "/full/v1/account_history", payload, &resp); err != nil {
		return nil, err
	}

	entries := make([]LedgerEntry, 0, len(resp.Result))
	for _, w := range resp.Result {
		entries = append(entries, LedgerEntry{
			TxID:      w.TxID,
			TxType:    w.TxType,
			Currency:  w.Currency,
			Amount:    parseDecimal(w.Amount),
			Timestamp: parseNanoTime(w.EventTime),
		})
	}
	return entries, nil
}

// SetDeriskRatio устанавливает derisk-to-maintenance-margin ratio.
// Значение передаётся как есть: валидность диапазона решает биржа.
func (g *GRVT) SetDeriskRatio(ctx context.Context, ratio string) error {
	payload := map[string]string{
		"sub_account_id":   g.creds.TradingAccountID,
		"ratio":            ratio,
	}
	return g.doRequest(ctx, "set_derisk_ratio", g.hosts.TradeData, "/full/v1/derisk_mm_ratio", payload, nil)
}

// Describe возвращает статическое описание возможностей биржи
func (g *GRVT) Describe() *ExchangeInfo {
	return &ExchangeInfo{
		Name:        "grvt",
		Environment: g.env,
		Testnet:     g.env == EnvTestnet,
		RateLimit:   g.limiter.Rate(),
		Hosts: map[string]string{
			"market_data": g.hosts.MarketData,
			"trade_data":  g.hosts.TradeData,
			"edge":        g.hosts.Edge,
			"ws_market":   g.hosts.WSMarket,
		},
		OrderTypes:     []string{OrderTypeLimit, OrderTypeMarket},
		SupportedKinds: []string{"PERPETUAL"},
	}
}

// Close закрывает поток и idle соединения сессии. Идемпотентен.
func (g *GRVT) Close() error {
	g.streamMu.Lock()
	stream := g.stream
	g.stream = nil
	g.streamMu.Unlock()

	if stream != nil {
		if err := stream.Close(); err != nil {
			g.logger.Warn("closing market data stream", zap.Error(err))
		}
	}

	CloseHTTPClient(g.httpClient)
	return nil
}

var _ Session = (*GRVT)(nil)
