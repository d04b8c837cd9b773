package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	Forbidden           failure.ErrorCode = "Forbidden"
	NotFound            failure.ErrorCode = "NotFound"

	// Marketplace API facade.
	BadMarketplaceResponse failure.ErrorCode = "BadMarketplaceResponse"
	MarketplaceUnavailable failure.ErrorCode = "MarketplaceUnavailable"
	InvalidAPIKey          failure.ErrorCode = "InvalidAPIKey"

	// Stream transport.
	StreamConnectFailed  failure.ErrorCode = "StreamConnectFailed"
	StreamNotConnected   failure.ErrorCode = "StreamNotConnected"
	StreamIdentifyFailed failure.ErrorCode = "StreamIdentifyFailed"

	// Trade lifecycle.
	AccountNotFound     failure.ErrorCode = "AccountNotFound"
	DepositNotFound     failure.ErrorCode = "DepositNotFound"
	InvalidDepositID    failure.ErrorCode = "InvalidDepositID"
	OfferDeliveryFailed failure.ErrorCode = "OfferDeliveryFailed"
	DelistFailed        failure.ErrorCode = "DelistFailed"
	ConfirmFailed       failure.ErrorCode = "ConfirmFailed"
)
