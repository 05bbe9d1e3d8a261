package proxy

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/telhawk-systems/ldadapter/internal/httputil"
	"github.com/telhawk-systems/ldadapter/internal/translator"
)

// forwardedParams are passed to the broker unchanged.
var forwardedParams = []string{"type", "q", "attrs", "limit", "offset", "id", "idPattern"}

type requestOptions struct {
	flags      translator.Flags
	keyValues  bool
	count      bool
	details    bool
	linkedData bool
}

// parseOptions reads the LD options and format parameters, the count and
// details flags, and the Accept header.
func parseOptions(r *http.Request) requestOptions {
	q := r.URL.Query()
	opts := requestOptions{
		linkedData: httputil.WantsLinkedData(r),
		count:      isTrue(q.Get("count")),
		details:    isTrue(q.Get("details")),
	}

	for _, opt := range splitList(q.Get("options")) {
		switch strings.ToLower(opt) {
		case "concise":
			opts.flags.Concise = true
		case "sysattrs":
			opts.flags.SysAttrs = true
		case "keyvalues", "simplified":
			opts.keyValues = true
		case "count":
			opts.count = true
		}
	}
	switch strings.ToLower(q.Get("format")) {
	case "concise":
		opts.flags.Concise = true
	case "simplified", "keyvalues":
		opts.keyValues = true
	}
	return opts
}

// v2Query builds the broker query for a collection or entity request.
func (o requestOptions) v2Query(r *http.Request) url.Values {
	in := r.URL.Query()
	out := url.Values{}
	for _, name := range forwardedParams {
		if v := in.Get(name); v != "" {
			out.Set(name, v)
		}
	}

	var options []string
	if o.keyValues {
		options = append(options, "keyValues")
	}
	if o.count {
		options = append(options, "count")
	}
	if len(options) > 0 {
		out.Set("options", strings.Join(options, ","))
	}
	return out
}

// subscriptionQuery keeps paging and count only.
func (o requestOptions) subscriptionQuery(r *http.Request) url.Values {
	in := r.URL.Query()
	out := url.Values{}
	for _, name := range []string{"limit", "offset"} {
		if v := in.Get(name); v != "" {
			out.Set(name, v)
		}
	}
	if o.count {
		out.Set("options", "count")
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTrue(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
