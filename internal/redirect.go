package internal

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// redirectRule is one entry of a redirect table, in file order.
type redirectRule struct {
	from string
	to   string
}

// LookupRedirect resolves requestPath against the JSON redirect table at
// tablePath. The table is read on every call so edits apply without a restart.
//
// Keys and the request path are compared without their leading "/". An exact
// key wins; otherwise the first key ending in "*" (in file order) whose prefix
// starts the request path is used. When that key's target also contains "*",
// the unmatched tail of the request path is appended to the target with the
// "*" removed. The returned target has no leading "/".
func LookupRedirect(tablePath, requestPath string) (string, bool, error) {
	rules, err := loadRedirectTable(tablePath)
	if err != nil {
		return "", false, err
	}
	target, ok := resolveRedirect(rules, requestPath)
	return target, ok, nil
}

func resolveRedirect(rules []redirectRule, requestPath string) (string, bool) {
	path := strings.TrimPrefix(requestPath, "/")

	for _, r := range rules {
		if r.from == path {
			return r.to, true
		}
	}

	for _, r := range rules {
		prefix, _, isWildcard := strings.Cut(r.from, "*")
		if !isWildcard || !strings.HasPrefix(path, prefix) {
			continue
		}
		if !strings.Contains(r.to, "*") {
			return r.to, true
		}
		return strings.ReplaceAll(r.to, "*", "") + path[len(prefix):], true
	}

	return "", false
}

// loadRedirectTable parses the table keeping entries in file order.
// Entries whose value is not a string are ignored.
func loadRedirectTable(tablePath string) ([]redirectRule, error) {
	data, err := os.ReadFile(tablePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRedirectTable, err)
	}

	iter := jsoniter.ConfigFastest.BorrowIterator(data)
	defer jsoniter.ConfigFastest.ReturnIterator(iter)

	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return nil, fmt.Errorf("%w: %s: top-level value is not an object", ErrRedirectTable, tablePath)
	}

	var rules []redirectRule
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		if it.WhatIsNext() != jsoniter.StringValue {
			it.Skip()
			return true
		}
		rules = append(rules, redirectRule{
			from: strings.TrimPrefix(key, "/"),
			to:   it.ReadString(),
		})
		return true
	})
	if iter.Error != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRedirectTable, tablePath, iter.Error)
	}

	return rules, nil
}

// redirectStatus keeps the permanent and temporary redirect codes a table may
// use. Anything else becomes 301.
func redirectStatus(code int) int {
	switch code {
	case http.StatusMovedPermanently, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return code
	}
	return http.StatusMovedPermanently
}

// redirectLocation turns a table target into a Location header value.
func redirectLocation(target string) string {
	if strings.Contains(target, "://") || strings.HasPrefix(target, "//") {
		return target
	}
	return "/" + strings.TrimPrefix(target, "/")
}

func writeRedirect(w http.ResponseWriter, target string, code int) {
	w.Header().Set("Location", redirectLocation(target))
	w.WriteHeader(redirectStatus(code))
}
