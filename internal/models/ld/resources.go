package ld

// Subscription is an LD subscription descriptor.
type Subscription struct {
	Context           string             `json:"@context,omitempty"`
	ID                string             `json:"id"`
	Type              string             `json:"type"`
	Description       string             `json:"description,omitempty"`
	Entities          []EntitySelector   `json:"entities,omitempty"`
	WatchedAttributes []string           `json:"watchedAttributes,omitempty"`
	Q                 string             `json:"q,omitempty"`
	Notification      NotificationParams `json:"notification"`
	ExpiresAt         string             `json:"expiresAt,omitempty"`
	Status            string             `json:"status,omitempty"`
	IsActive          *bool              `json:"isActive,omitempty"`
	Throttling        int                `json:"throttling,omitempty"`
}

// EntitySelector matches entities by id, pattern and type.
type EntitySelector struct {
	ID          string `json:"id,omitempty"`
	IDPattern   string `json:"idPattern,omitempty"`
	Type        string `json:"type,omitempty"`
	TypePattern string `json:"typePattern,omitempty"`
}

// NotificationParams describes notification content and delivery.
type NotificationParams struct {
	Attributes       []string  `json:"attributes,omitempty"`
	Format           string    `json:"format,omitempty"`
	Endpoint         *Endpoint `json:"endpoint,omitempty"`
	TimesSent        int       `json:"timesSent,omitempty"`
	LastNotification string    `json:"lastNotification,omitempty"`
	LastSuccess      string    `json:"lastSuccess,omitempty"`
	LastFailure      string    `json:"lastFailure,omitempty"`
}

// Endpoint is where notifications are delivered.
type Endpoint struct {
	URI    string `json:"uri"`
	Accept string `json:"accept"`
}

// EntityTypeList is the response of GET /types.
type EntityTypeList struct {
	Context  string   `json:"@context,omitempty"`
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	TypeList []string `json:"typeList"`
}

// EntityType is one element of GET /types?details=true.
type EntityType struct {
	Context        string   `json:"@context,omitempty"`
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	TypeName       string   `json:"typeName"`
	AttributeNames []string `json:"attributeNames"`
}

// EntityTypeInformation is the response of GET /types/{type}.
type EntityTypeInformation struct {
	Context          string            `json:"@context,omitempty"`
	ID               string            `json:"id"`
	Type             string            `json:"type"`
	TypeName         string            `json:"typeName"`
	EntityCount      int               `json:"entityCount"`
	AttributeDetails []AttributeDetail `json:"attributeDetails"`
}

// AttributeDetail describes one attribute of an entity type.
type AttributeDetail struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	AttributeName  string   `json:"attributeName"`
	AttributeTypes []string `json:"attributeTypes"`
}

// EntityAttributeList is the response of GET /attributes.
type EntityAttributeList struct {
	Context       string   `json:"@context,omitempty"`
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	AttributeList []string `json:"attributeList"`
}

// EntityAttribute is the response of GET /attributes/{attr}, and with
// AttributeCount and AttributeTypes left empty, one element of
// GET /attributes?details=true.
type EntityAttribute struct {
	Context        string   `json:"@context,omitempty"`
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	AttributeName  string   `json:"attributeName"`
	AttributeCount int      `json:"attributeCount,omitempty"`
	AttributeTypes []string `json:"attributeTypes,omitempty"`
	TypeNames      []string `json:"typeNames"`
}
