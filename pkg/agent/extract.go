package agent

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"infoex-agent-service/pkg/infoex"
)

// BlockKind discriminates what ExtractJSONBlock found in a response.
type BlockKind int

const (
	// BlockNone means the response carried no fenced JSON block.
	BlockNone BlockKind = iota
	// BlockParsed means a block was found and parsed.
	BlockParsed
	// BlockMalformed means a block was found but is not valid JSON.
	BlockMalformed
)

// BlockResult is the outcome of looking for a fenced JSON payload in a
// generated response. A malformed block is an explicit result, not an
// error: callers fall back to heuristic extraction.
type BlockResult struct {
	Kind BlockKind
	Data map[string]any
}

var (
	jsonBlockRe = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n```")
	sizeRe      = regexp.MustCompile(`size\s*(\d+(?:\.\d+)?)`)
	timeRe      = regexp.MustCompile(`(\d{1,2}:\d{2})`)
)

// ExtractJSONBlock finds the first ```json fenced block in a response and
// parses it.
func ExtractJSONBlock(response string) BlockResult {
	match := jsonBlockRe.FindStringSubmatch(response)
	if match == nil {
		return BlockResult{Kind: BlockNone}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(match[1]), &data); err != nil {
		return BlockResult{Kind: BlockMalformed}
	}
	return BlockResult{Kind: BlockParsed, Data: data}
}

// ExtractForType pulls observation data out of a conversation turn. A
// parsed JSON block from the generated response wins; otherwise a small
// set of per-type heuristics runs over the raw user message. The result
// is always normalized.
func ExtractForType(obsType, userMessage, response string) map[string]any {
	if block := ExtractJSONBlock(response); block.Kind == BlockParsed {
		return infoex.Normalize(obsType, block.Data)
	}
	return infoex.Normalize(obsType, heuristicExtract(obsType, userMessage))
}

func heuristicExtract(obsType, message string) map[string]any {
	extracted := map[string]any{}
	lower := strings.ToLower(message)

	switch obsType {
	case infoex.TypeAvalancheObservation:
		if m := sizeRe.FindStringSubmatch(lower); m != nil {
			if size, err := strconv.ParseFloat(m[1], 64); err == nil {
				extracted["sizeMin"] = size
				extracted["sizeMax"] = size
			}
		}
		if strings.Contains(lower, "skier") {
			extracted["trigger"] = "Sa"
		} else if strings.Contains(lower, "natural") {
			extracted["trigger"] = "Na"
		}

	case infoex.TypeFieldSummary:
		if m := timeRe.FindStringSubmatch(message); m != nil {
			if strings.Contains(lower, "start") {
				extracted["obStartTime"] = m[1]
			} else if strings.Contains(lower, "end") {
				extracted["obEndTime"] = m[1]
			}
		}
	}

	return extracted
}
