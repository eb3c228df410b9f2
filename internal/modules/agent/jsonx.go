// README: Total JSON extraction from raw LLM output.
package agent

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	doubledBraces = regexp.MustCompile(`(?s)^\{\{(.+)\}\}$`)
	firstObject   = regexp.MustCompile(`(?s)\{.*\}`)
)

func parseObject(s string) json.RawMessage {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil
	}
	return json.RawMessage(s)
}

// ExtractJSON recovers the first JSON object from arbitrary model output.
// It attempts, in order: a direct strict parse, stripping markdown fences and
// backticks, collapsing a doubled outer brace, and finally a greedy
// first-{...}-span match. Returns nil when nothing parses; never panics.
func ExtractJSON(text string) json.RawMessage {
	trimmed := strings.TrimSpace(text)
	if raw := parseObject(trimmed); raw != nil {
		return raw
	}

	cleaned := strings.TrimPrefix(trimmed, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.Trim(cleaned, "` \n\t")
	if raw := parseObject(cleaned); raw != nil {
		return raw
	}

	collapsed := doubledBraces.ReplaceAllString(cleaned, "{$1}")
	if raw := parseObject(collapsed); raw != nil {
		return raw
	}

	if span := firstObject.FindString(collapsed); span != "" {
		if raw := parseObject(span); raw != nil {
			return raw
		}
	}

	log.Debug().Str("component", "agent").Int("len", len(text)).Msg("no JSON object recovered from model output")
	return nil
}
