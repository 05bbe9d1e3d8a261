package logging

import (
	"log/slog"
	"time"
)

// Field names shared by every log line.
const (
	FieldService        = "service"
	FieldRequestID      = "request_id"
	FieldIP             = "ip"
	FieldMethod         = "method"
	FieldPath           = "path"
	FieldStatus         = "status"
	FieldDuration       = "duration_ms"
	FieldError          = "error"
	FieldUpstream       = "upstream"
	FieldEntityID       = "entity_id"
	FieldSubscriptionID = "subscription_id"
	FieldResource       = "resource"
)

func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration records d in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(FieldDuration, d.Milliseconds())
}

// Error returns an error attribute. A nil error renders as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// Upstream is the v2 URL a request was forwarded to.
func Upstream(url string) slog.Attr {
	return slog.String(FieldUpstream, url)
}

func EntityID(id string) slog.Attr {
	return slog.String(FieldEntityID, id)
}

func SubscriptionID(id string) slog.Attr {
	return slog.String(FieldSubscriptionID, id)
}

// Resource names the translated resource shape, e.g. "entity" or "types".
func Resource(name string) slog.Attr {
	return slog.String(FieldResource, name)
}
