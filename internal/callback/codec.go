// Package callback encodes and decodes the compact tokens carried in inline
// keyboard buttons. A token is the entire request: the bot keeps no message
// state between screens, so every button press must be self-describing.
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Action is the verb portion of a callback token.
type Action string

const (
	ActionHome            Action = "home"
	ActionPrice           Action = "price"
	ActionChart           Action = "chart"
	ActionFavorites       Action = "favorites"
	ActionFavoritesAdd    Action = "favorites-add"
	ActionFavoritesRemove Action = "favorites-remove"
	ActionAlarm           Action = "alarm"
	ActionAlarmOn         Action = "alarm-on"
	ActionAlarmOff        Action = "alarm-off"
	ActionReview          Action = "review"
	ActionInfo            Action = "info"
	ActionSearch          Action = "search"
)

var knownActions = map[Action]struct{}{
	ActionHome:            {},
	ActionPrice:           {},
	ActionChart:           {},
	ActionFavorites:       {},
	ActionFavoritesAdd:    {},
	ActionFavoritesRemove: {},
	ActionAlarm:           {},
	ActionAlarmOn:         {},
	ActionAlarmOff:        {},
	ActionReview:          {},
	ActionInfo:            {},
	ActionSearch:          {},
}

// ErrMalformedToken indicates that a callback payload does not follow the
// token grammar. The router treats it as an ignored callback.
var ErrMalformedToken = errors.New("malformed callback token")

// Token is the decoded form of a callback payload.
//
// Grammar: action[#start-end][_target]. The window is present on paginated
// list actions, the target on leaf actions (an asset id, or an hour for
// alarm-on).
type Token struct {
	Action    Action
	Target    string
	Start     int
	End       int
	HasWindow bool
}

// Parse decodes raw callback data into a Token.
func Parse(raw string) (Token, error) {
	if raw == "" {
		return Token{}, fmt.Errorf("%w: empty payload", ErrMalformedToken)
	}

	var tok Token
	rest := raw

	if hash := strings.Index(rest, "#"); hash >= 0 {
		window := rest[hash+1:]
		rest = rest[:hash]

		if under := strings.Index(window, "_"); under >= 0 {
			tok.Target = window[under+1:]
			window = window[:under]
		}

		startStr, endStr, ok := strings.Cut(window, "-")
		if !ok {
			return Token{}, fmt.Errorf("%w: window %q has no separator", ErrMalformedToken, window)
		}

		start, err := parseBound(startStr)
		if err != nil {
			return Token{}, err
		}
		end, err := parseBound(endStr)
		if err != nil {
			return Token{}, err
		}
		if start >= end {
			return Token{}, fmt.Errorf("%w: window start %d is not below end %d", ErrMalformedToken, start, end)
		}

		tok.Start, tok.End, tok.HasWindow = start, end, true
	} else if under := strings.Index(rest, "_"); under >= 0 {
		tok.Target = rest[under+1:]
		rest = rest[:under]

		if tok.Target == "" {
			return Token{}, fmt.Errorf("%w: empty target", ErrMalformedToken)
		}
	}

	action := Action(rest)
	if _, ok := knownActions[action]; !ok {
		return Token{}, fmt.Errorf("%w: unknown action %q", ErrMalformedToken, rest)
	}

	tok.Action = action
	return tok, nil
}

func parseBound(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: window bound %q is not a non-negative integer", ErrMalformedToken, s)
	}
	return n, nil
}

// String renders the token back into its wire form.
func (t Token) String() string {
	var b strings.Builder
	b.WriteString(string(t.Action))
	if t.HasWindow {
		b.WriteByte('#')
		b.WriteString(strconv.Itoa(t.Start))
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(t.End))
	}
	if t.Target != "" {
		b.WriteByte('_')
		b.WriteString(t.Target)
	}
	return b.String()
}

// Paged builds a token for a paginated list action with the given window.
func Paged(action Action, start, end int) Token {
	return Token{Action: action, Start: start, End: end, HasWindow: true}
}

// Targeted builds a token for a leaf action addressing a single target.
func Targeted(action Action, target string) Token {
	return Token{Action: action, Target: target}
}

// Plain builds a token carrying only the action.
func Plain(action Action) Token {
	return Token{Action: action}
}
