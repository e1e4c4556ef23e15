package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// WebSocket errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketReconnecting:    "WebSocket reconnecting",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	// Exchange API errors
	CodeExchangeUnavailable: "Exchange API is unavailable",
	CodeExchangeAPIError:    "Exchange API error",
	CodeExchangeRateLimited: "Exchange rate limit exceeded",
	CodeTickerFetchFailed:   "Failed to fetch ticker data",
	CodeMalformedTicker:     "Malformed ticker payload",

	// Spread and profit calculation errors
	CodeInvalidPrice:       "buy price must be positive",
	CodeInvalidTradeAmount: "Invalid trade amount",
	CodeInvalidFeeConfig:   "Invalid fee configuration",

	// Alerting errors
	CodeInvalidThreshold: "Invalid alert threshold",

	// Subscription errors
	CodeMalformedSubscription: "Malformed subscription data",
	CodePairLimitReached:      "Trading pair limit reached for this plan",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
