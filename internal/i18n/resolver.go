package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// Fallback is the language used when no signal resolves.
const Fallback = "en"

// HeaderName is the explicit per-request language override header.
const HeaderName = "X-Report-Language"

// CookieName carries the sticky language choice.
const CookieName = "lng"

var supported = []language.Tag{
	language.English,
	language.German,
	language.Romanian,
	language.French,
}

var matcher = language.NewMatcher(supported)

// Signals are the layered language hints of one request, strongest
// first: explicit body field, custom header, query parameter, cookie,
// then the Accept-Language header.
type Signals struct {
	Body           string
	Header         string
	Query          string
	Cookie         string
	AcceptLanguage string
}

// SignalsFromRequest extracts the request-level signals. The body
// field, when the endpoint accepts one, is supplied by the caller.
func SignalsFromRequest(r *http.Request, body string) Signals {
	s := Signals{
		Body:           body,
		Header:         r.Header.Get(HeaderName),
		Query:          r.URL.Query().Get("lng"),
		AcceptLanguage: r.Header.Get("Accept-Language"),
	}
	if c, err := r.Cookie(CookieName); err == nil {
		s.Cookie = c.Value
	}
	return s
}

// Resolve picks exactly one supported language code. It never errors;
// any unusable candidate falls through to the next signal and finally
// to the fallback.
func Resolve(s Signals) string {
	for _, candidate := range []string{s.Body, s.Header, s.Query, s.Cookie} {
		if lang, ok := normalize(candidate); ok {
			return lang
		}
	}

	if s.AcceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(s.AcceptLanguage); err == nil && len(tags) > 0 {
			if _, idx, conf := matcher.Match(tags...); conf > language.No {
				return baseCode(supported[idx])
			}
		}
	}

	return Fallback
}

func normalize(candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false
	}
	tag, err := language.Parse(candidate)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, t := range supported {
		if baseCode(t) == base.String() {
			return base.String(), true
		}
	}
	return "", false
}

func baseCode(t language.Tag) string {
	base, _ := t.Base()
	return base.String()
}
