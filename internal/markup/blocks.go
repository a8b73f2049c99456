// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import "strings"

// BlockKind distinguishes prose from fenced code.
type BlockKind int

const (
	// BlockText is ordinary prose subject to bold-marker formatting.
	BlockText BlockKind = iota
	// BlockCode is the body of a ``` fence, shown verbatim.
	BlockCode
)

// Block is a contiguous section of a response.
type Block struct {
	Kind BlockKind
	// Lang is the info string after the opening fence, if any.
	Lang string
	Body string
}

// Blocks splits text at ``` fences. An unterminated fence runs to the end
// of the text, matching how most markdown renderers treat it.
func Blocks(text string) []Block {
	var (
		blocks []Block
		buf    []string
		inCode bool
		lang   string
	)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		kind := BlockText
		if inCode {
			kind = BlockCode
		}
		blocks = append(blocks, Block{Kind: kind, Lang: lang, Body: strings.Join(buf, "\n")})
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, fenceMarker) {
			if inCode {
				flush()
				inCode = false
				lang = ""
				continue
			}
			flush()
			inCode = true
			lang = strings.TrimSpace(strings.TrimPrefix(trimmed, fenceMarker))
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return blocks
}
