package model

import "fmt"

// Side is the direction of an order relative to the market.
type Side int

const (
	SideBuy Side = iota
	SideSell
	SideCoverShort
	SideSellShort
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	case SideCoverShort:
		return "COVER_SHORT"
	case SideSellShort:
		return "SELL_SHORT"
	}
	return fmt.Sprintf("SIDE(%d)", int(s))
}

// IsBuy reports whether the side adds to a long position. Covering a short
// buys stock, so it counts as a buy for book and limit purposes.
func (s Side) IsBuy() bool { return s == SideBuy || s == SideCoverShort }

// IsSell reports whether the side reduces or shorts a position.
func (s Side) IsSell() bool { return s == SideSell || s == SideSellShort }

// OrderType distinguishes market from limit orders.
type OrderType int

const (
	OrderTypeMarket OrderType = iota
	OrderTypeLimit
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeMarket:
		return "MARKET"
	case OrderTypeLimit:
		return "LIMIT"
	}
	return fmt.Sprintf("ORDER_TYPE(%d)", int(t))
}

// TimeInForce controls how long an order stays working at the exchange.
// The core carries it onto the wire intent and never branches on it.
type TimeInForce int

const (
	TimeInForceDay TimeInForce = iota
	TimeInForceGTC
	TimeInForceIOC
	TimeInForceFOK
)

func (t TimeInForce) String() string {
	switch t {
	case TimeInForceDay:
		return "DAY"
	case TimeInForceGTC:
		return "GTC"
	case TimeInForceIOC:
		return "IOC"
	case TimeInForceFOK:
		return "FOK"
	}
	return fmt.Sprintf("TIF(%d)", int(t))
}

// OrderRequestType is the kind of change a request asks for.
type OrderRequestType int

const (
	RequestCreate OrderRequestType = iota
	RequestAmend
	RequestCancel
)

func (t OrderRequestType) String() string {
	switch t {
	case RequestCreate:
		return "CREATE"
	case RequestAmend:
		return "AMEND"
	case RequestCancel:
		return "CANCEL"
	}
	return fmt.Sprintf("REQUEST(%d)", int(t))
}

// OrderStatus is an exchange acknowledgement status. The set is closed;
// the lifecycle matches it exhaustively.
type OrderStatus int

const (
	StatusPendingNew OrderStatus = iota
	StatusNew
	StatusPartiallyFilled
	StatusFilled
	StatusDoneForDay
	StatusCancelled
	StatusReplaced
	StatusPendingCancelReplace
	StatusStopped
	StatusRejected
	StatusSuspended
	StatusCalculated
	StatusExpired
)

func (s OrderStatus) String() string {
	switch s {
	case StatusPendingNew:
		return "PENDING_NEW"
	case StatusNew:
		return "NEW"
	case StatusPartiallyFilled:
		return "PARTIALLY_FILLED"
	case StatusFilled:
		return "FILLED"
	case StatusDoneForDay:
		return "DONE_FOR_DAY"
	case StatusCancelled:
		return "CANCELLED"
	case StatusReplaced:
		return "REPLACED"
	case StatusPendingCancelReplace:
		return "PENDING_CANCEL_REPLACE"
	case StatusStopped:
		return "STOPPED"
	case StatusRejected:
		return "REJECTED"
	case StatusSuspended:
		return "SUSPENDED"
	case StatusCalculated:
		return "CALCULATED"
	case StatusExpired:
		return "EXPIRED"
	}
	return fmt.Sprintf("STATUS(%d)", int(s))
}

// RejectReason identifies the risk check that rejected a request.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	ReasonLotSize
	ReasonMaxLong
	ReasonMaxShort
	ReasonMaxNotional
	ReasonMaxQuantity
	ReasonMaxSpread
	ReasonPriceRange
	ReasonRestrictedList
	ReasonShortSell
	ReasonTickSize
	ReasonPortfolio
)

func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "NONE"
	case ReasonLotSize:
		return "LOT_SIZE"
	case ReasonMaxLong:
		return "MAX_LONG"
	case ReasonMaxShort:
		return "MAX_SHORT"
	case ReasonMaxNotional:
		return "MAX_NOTIONAL"
	case ReasonMaxQuantity:
		return "MAX_QUANTITY"
	case ReasonMaxSpread:
		return "MAX_SPREAD"
	case ReasonPriceRange:
		return "PRICE_RANGE"
	case ReasonRestrictedList:
		return "RESTRICTED_LIST"
	case ReasonShortSell:
		return "SHORT_SELL"
	case ReasonTickSize:
		return "TICK_SIZE"
	case ReasonPortfolio:
		return "PORTFOLIO"
	}
	return fmt.Sprintf("REASON(%d)", int(r))
}
