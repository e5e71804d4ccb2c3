// Package i18n resolves translation keys to English or Welsh display text.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Supported languages
const (
	English = "en"
	Welsh   = "cy"
)

//go:embed locales/*.yaml
var locales embed.FS

var supported = []language.Tag{language.English, language.MustParse(Welsh)}

// Catalog holds the messages of every supported language
type Catalog struct {
	messages map[string]map[string]string
	matcher  language.Matcher
}

// Load parses the embedded message catalogues
func Load() (*Catalog, error) {
	c := &Catalog{
		messages: map[string]map[string]string{},
		matcher:  language.NewMatcher(supported),
	}
	for _, lang := range []string{English, Welsh} {
		raw, err := locales.ReadFile(path.Join("locales", lang+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("reading %s catalogue: %w", lang, err)
		}
		tree := map[string]interface{}{}
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("parsing %s catalogue: %w", lang, err)
		}
		flat := map[string]string{}
		flatten("", tree, flat)
		c.messages[lang] = flat
	}
	return c, nil
}

// flatten turns nested YAML maps into dotted keys
func flatten(prefix string, tree map[string]interface{}, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch value := v.(type) {
		case map[string]interface{}:
			flatten(key, value, out)
		case string:
			out[key] = value
		default:
			out[key] = fmt.Sprint(value)
		}
	}
}

// T translates key into lang, falling back to English and then to the key itself.
// When args are given the message is used as a format string.
func (c *Catalog) T(lang, key string, args ...interface{}) string {
	msg, ok := c.messages[lang][key]
	if !ok {
		msg, ok = c.messages[English][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has reports whether key exists in the English catalogue
func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[English][key]
	return ok
}

// Match picks the language for a request: an explicit choice (the lng cookie)
// wins over the Accept-Language header. English is the default.
func (c *Catalog) Match(choice, acceptLanguage string) string {
	if lang, ok := Supported(choice); ok {
		return lang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, index, confidence := c.matcher.Match(tags...)
	if confidence == language.No {
		return English
	}
	base, _ := supported[index].Base()
	return base.String()
}

// Supported normalises lang and reports whether it is a supported language
func Supported(lang string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case English:
		return English, true
	case Welsh:
		return Welsh, true
	}
	return "", false
}
