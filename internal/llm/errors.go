package llm

import (
	"errors"
	"strings"
)

// ErrFatalAPI marks provider errors that will not resolve on retry:
// exhausted credits, bad keys, and revoked access. Callers abort the
// pipeline on these instead of degrading per-item.
var ErrFatalAPI = errors.New("fatal API error")

// ErrBadResponse marks a model response that could not be decoded into the
// expected structure. Callers fall back to heuristics on this.
var ErrBadResponse = errors.New("unparseable model response")

var fatalAPIPatterns = []string{
	"credit balance",
	"rate limit",
	"quota",
	"billing",
	"invalid api key",
	"authentication",
	"unauthorized",
	"401",
	"403",
}

func isFatalAPIError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range fatalAPIPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func wrapFatalError(err error) error {
	if err == nil {
		return nil
	}
	if isFatalAPIError(err) {
		return errors.Join(ErrFatalAPI, err)
	}
	return err
}
