package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Spread monitoring error codes
const (
	// WebSocket errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketReconnecting    Code = "WEBSOCKET_RECONNECTING"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"

	// Exchange API errors
	CodeExchangeUnavailable Code = "EXCHANGE_UNAVAILABLE"
	CodeExchangeAPIError    Code = "EXCHANGE_API_ERROR"
	CodeExchangeRateLimited Code = "EXCHANGE_RATE_LIMITED"
	CodeTickerFetchFailed   Code = "TICKER_FETCH_FAILED"
	CodeMalformedTicker     Code = "MALFORMED_TICKER"

	// Spread and profit calculation errors
	CodeInvalidPrice       Code = "INVALID_PRICE"
	CodeInvalidTradeAmount Code = "INVALID_TRADE_AMOUNT"
	CodeInvalidFeeConfig   Code = "INVALID_FEE_CONFIG"

	// Alerting errors
	CodeInvalidThreshold Code = "INVALID_THRESHOLD"

	// Subscription errors
	CodeMalformedSubscription Code = "MALFORMED_SUBSCRIPTION"
	CodePairLimitReached      Code = "PAIR_LIMIT_REACHED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
