package v2

// Subscription is a v2 subscription descriptor.
type Subscription struct {
	ID           string                   `json:"id"`
	Description  string                   `json:"description,omitempty"`
	Subject      SubscriptionSubject      `json:"subject"`
	Notification SubscriptionNotification `json:"notification"`
	Expires      string                   `json:"expires,omitempty"`
	Status       string                   `json:"status,omitempty"`
	Throttling   int                      `json:"throttling,omitempty"`
}

// SubscriptionSubject selects the entities and the change condition.
type SubscriptionSubject struct {
	Entities  []EntitySelector `json:"entities"`
	Condition Condition        `json:"condition"`
}

// EntitySelector matches entities by id or pattern and type.
type EntitySelector struct {
	ID          string `json:"id,omitempty"`
	IDPattern   string `json:"idPattern,omitempty"`
	Type        string `json:"type,omitempty"`
	TypePattern string `json:"typePattern,omitempty"`
}

// Condition lists watched attributes and an optional filter expression.
type Condition struct {
	Attrs      []string    `json:"attrs,omitempty"`
	Expression *Expression `json:"expression,omitempty"`
}

// Expression is the v2 condition filter.
type Expression struct {
	Q        string `json:"q,omitempty"`
	MQ       string `json:"mq,omitempty"`
	Georel   string `json:"georel,omitempty"`
	Geometry string `json:"geometry,omitempty"`
	Coords   string `json:"coords,omitempty"`
}

// SubscriptionNotification describes how and where notifications are sent.
type SubscriptionNotification struct {
	Attrs            []string    `json:"attrs,omitempty"`
	AttrsFormat      string      `json:"attrsFormat,omitempty"`
	HTTP             *HTTP       `json:"http,omitempty"`
	HTTPCustom       *HTTPCustom `json:"httpCustom,omitempty"`
	TimesSent        int         `json:"timesSent,omitempty"`
	LastNotification string      `json:"lastNotification,omitempty"`
	LastSuccess      string      `json:"lastSuccess,omitempty"`
	LastFailure      string      `json:"lastFailure,omitempty"`
}

// HTTP is a plain notification endpoint.
type HTTP struct {
	URL string `json:"url"`
}

// HTTPCustom is a notification endpoint with custom headers. Subscriptions
// created through the adapter point at its /notify route and carry the real
// LD endpoint in the "target" header.
type HTTPCustom struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}
