package proxy

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/telhawk-systems/ldadapter/internal/httputil"
	"github.com/telhawk-systems/ldadapter/internal/logging"
	"github.com/telhawk-systems/ldadapter/internal/metrics"
	v2 "github.com/telhawk-systems/ldadapter/internal/models/v2"
	"github.com/telhawk-systems/ldadapter/internal/translator"
)

func (p *Proxy) listEntities(w http.ResponseWriter, r *http.Request) {
	opts := parseOptions(r)
	resp, err := p.get(r, "entities", opts.v2Query(r), "entities")
	if err != nil {
		p.fail(w, r, "entities", err)
		return
	}

	var out any
	if opts.keyValues {
		var list []v2.KeyValuesEntity
		if err := decode(resp.body, &list); err != nil {
			p.fail(w, r, "entities", err)
			return
		}
		entities := make([]any, 0, len(list))
		for _, e := range list {
			entities = append(entities, p.translator.KeyValues(e, opts.linkedData))
		}
		out = entities
	} else {
		var list []v2.Entity
		if err := decode(resp.body, &list); err != nil {
			p.fail(w, r, "entities", err)
			return
		}
		out = p.translator.Entities(list, opts.linkedData, opts.flags)
	}

	copyCount(w, resp)
	p.respond(w, r, "entities", out, opts.linkedData)
}

func (p *Proxy) getEntity(w http.ResponseWriter, r *http.Request) {
	opts := parseOptions(r)
	id := r.PathValue("id")
	resp, err := p.get(r, "entity", opts.v2Query(r), "entities", id)
	if err != nil {
		p.fail(w, r, "entity", err, logging.EntityID(id))
		return
	}

	var out any
	if opts.keyValues {
		var e v2.KeyValuesEntity
		if err := decode(resp.body, &e); err != nil {
			p.fail(w, r, "entity", err, logging.EntityID(id))
			return
		}
		out = p.translator.KeyValues(e, opts.linkedData)
	} else {
		var e v2.Entity
		if err := decode(resp.body, &e); err != nil {
			p.fail(w, r, "entity", err, logging.EntityID(id))
			return
		}
		out = p.translator.Entity(e, opts.linkedData, opts.flags)
	}
	p.respond(w, r, "entity", out, opts.linkedData)
}

func (p *Proxy) fetchTypes(w http.ResponseWriter, r *http.Request, resource string) ([]v2.TypeRecord, bool) {
	resp, err := p.get(r, resource, nil, "types")
	if err != nil {
		p.fail(w, r, resource, err)
		return nil, false
	}
	var records []v2.TypeRecord
	if err := decode(resp.body, &records); err != nil {
		p.fail(w, r, resource, err)
		return nil, false
	}
	return records, true
}

func (p *Proxy) listTypes(w http.ResponseWriter, r *http.Request) {
	opts := parseOptions(r)
	records, ok := p.fetchTypes(w, r, "types")
	if !ok {
		return
	}
	if opts.details {
		p.respond(w, r, "types", p.translator.EntityTypes(records, opts.linkedData), opts.linkedData)
		return
	}
	p.respond(w, r, "types", p.translator.EntityTypeList(records, opts.linkedData), opts.linkedData)
}

func (p *Proxy) getType(w http.ResponseWriter, r *http.Request) {
	opts := parseOptions(r)
	typeName := r.PathValue("type")
	resp, err := p.get(r, "type", nil, "types", typeName)
	if err != nil {
		p.fail(w, r, "type", err)
		return
	}
	var rec v2.TypeRecord
	if err := decode(resp.body, &rec); err != nil {
		p.fail(w, r, "type", err)
		return
	}
	p.respond(w, r, "type", p.translator.EntityTypeInformation(typeName, rec, opts.linkedData), opts.linkedData)
}

func (p *Proxy) listAttributes(w http.ResponseWriter, r *http.Request) {
	opts := parseOptions(r)
	records, ok := p.fetchTypes(w, r, "attributes")
	if !ok {
		return
	}
	if opts.details {
		p.respond(w, r, "attributes", p.translator.AttributeSummaries(records, opts.linkedData), opts.linkedData)
		return
	}
	p.respond(w, r, "attributes", p.translator.EntityAttributeList(records, opts.linkedData), opts.linkedData)
}

func (p *Proxy) getAttribute(w http.ResponseWriter, r *http.Request) {
	opts := parseOptions(r)
	name := r.PathValue("attr")
	records, ok := p.fetchTypes(w, r, "attribute")
	if !ok {
		return
	}
	attr, found := p.translator.EntityAttribute(name, records, opts.linkedData)
	if !found {
		metrics.TranslationsTotal.WithLabelValues("attribute", metrics.OutcomeError).Inc()
		httputil.WriteProblem(w, http.StatusNotFound, httputil.Problem{
			Type:   httputil.ResourceNotFound,
			Title:  "Attribute not found",
			Detail: fmt.Sprintf("no entity type declares attribute %q", name),
		})
		return
	}
	p.respond(w, r, "attribute", attr, opts.linkedData)
}

func (p *Proxy) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	opts := parseOptions(r)
	resp, err := p.get(r, "subscriptions", opts.subscriptionQuery(r), "subscriptions")
	if err != nil {
		p.fail(w, r, "subscriptions", err)
		return
	}
	var list []v2.Subscription
	if err := decode(resp.body, &list); err != nil {
		p.fail(w, r, "subscriptions", err)
		return
	}
	copyCount(w, resp)
	p.respond(w, r, "subscriptions", p.translator.Subscriptions(list, opts.linkedData), opts.linkedData)
}

func (p *Proxy) getSubscription(w http.ResponseWriter, r *http.Request) {
	opts := parseOptions(r)
	id := translator.SubscriptionID(r.PathValue("id"))
	resp, err := p.get(r, "subscription", nil, "subscriptions", id)
	if err != nil {
		p.fail(w, r, "subscription", err, logging.SubscriptionID(id))
		return
	}
	var sub v2.Subscription
	if err := decode(resp.body, &sub); err != nil {
		p.fail(w, r, "subscription", err, logging.SubscriptionID(id))
		return
	}
	p.respond(w, r, "subscription", p.translator.Subscription(sub, opts.linkedData), opts.linkedData)
}

func decode(body []byte, v any) error {
	if err := v2.Decode(body, v); err != nil {
		metrics.UpstreamErrors.WithLabelValues(metrics.ReasonDecode).Inc()
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}

func copyCount(w http.ResponseWriter, resp *upstreamResponse) {
	if count := resp.header.Get(HeaderTotalCount); count != "" {
		w.Header().Set(HeaderResultsCount, count)
	}
}

func (p *Proxy) respond(w http.ResponseWriter, r *http.Request, resource string, body any, linkedData bool) {
	metrics.TranslationsTotal.WithLabelValues(resource, metrics.OutcomeSuccess).Inc()
	httputil.WriteBody(w, http.StatusOK, body, linkedData, p.translator.ContextURL())
}

// fail renders err: broker error responses are mapped to LD problems, every
// other failure becomes a 500 InternalError.
func (p *Proxy) fail(w http.ResponseWriter, r *http.Request, resource string, err error, attrs ...any) {
	metrics.TranslationsTotal.WithLabelValues(resource, metrics.OutcomeError).Inc()
	args := append([]any{logging.Resource(resource), logging.Error(err)}, attrs...)

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		p.logger.WarnContext(r.Context(), "upstream error response", append(args, logging.Status(statusErr.Status))...)
		httputil.WriteProblem(w, statusErr.Status, httputil.ProblemFromV2(statusErr.Status, statusErr.Body))
		return
	}

	p.logger.ErrorContext(r.Context(), "request failed", args...)
	httputil.WriteInternalError(w, err.Error(), p.component)
}
