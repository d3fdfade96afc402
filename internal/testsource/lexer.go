// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package testsource

import (
	"fmt"
	"sort"
	"strings"
)

type tokenKind uint8

const (
	eof tokenKind = iota
	ident
	number
	str
	punct
)

type token struct {
	kind   tokenKind
	text   string
	line   int
	column int
	// comments preceding the token
	comments []string
}

func (t token) is(text string) bool {
	return t.kind == punct && t.text == text
}

func (t token) keyword(text string) bool {
	return t.kind == ident && t.text == text
}

// positions maps byte offsets of a file to lines and columns.
type positions []int

func newPositions(src string) positions {
	p := positions{0}

	for i := range len(src) {
		if src[i] == '\n' {
			p = append(p, i+1)
		}
	}

	return p
}

func (p positions) at(offset int) (line, column int) {
	line = sort.Search(len(p), func(i int) bool { return p[i] > offset })

	return line, offset - p[line-1] + 1
}

// punctuators in longest-first order.
var punctuators = []string{
	"...", "===", "!==", "??=", "||=", "&&=", "**",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "+=", "-=", "*=", "/=", "%=", "++", "--",
	"(", ")", "{", "}", "[", "]", ",", ";", ":", ".", "?", "!", "=", "<", ">",
	"+", "-", "*", "/", "%", "&", "|", "@", "~", "^",
}

// lex splits src[start:end] into tokens. Positions are relative to the whole file.
func lex(src string, pos positions, start, end int) ([]token, error) {
	var (
		toks     []token
		comments []string
	)

	i := start
	for i < end {
		c := src[i]

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++

			continue

		case strings.HasPrefix(src[i:end], "//"):
			j := strings.IndexByte(src[i:end], '\n')
			if j < 0 {
				j = end - i
			}

			comments = append(comments, strings.TrimSpace(src[i:i+j]))
			i += j

			continue

		case strings.HasPrefix(src[i:end], "/*"):
			j := strings.Index(src[i+2:end], "*/")
			if j < 0 {
				return nil, errorAt(pos, i, "unterminated comment")
			}

			comments = append(comments, src[i:i+j+4])
			i += j + 4

			continue
		}

		line, column := pos.at(i)
		tok := token{line: line, column: column, comments: comments}
		comments = nil

		switch {
		case identStart(c):
			j := i + 1
			for j < end && identPart(src[j]) {
				j++
			}

			tok.kind, tok.text = ident, src[i:j]
			i = j

		case c >= '0' && c <= '9':
			j := i + 1
			for j < end && (identPart(src[j]) || src[j] == '.') {
				j++
			}

			tok.kind, tok.text = number, src[i:j]
			i = j

		case c == '\'' || c == '"' || c == '`':
			j := i + 1
			for j < end && src[j] != c {
				if src[j] == '\\' {
					j++
				}
				j++
			}

			if j >= end {
				return nil, errorAt(pos, i, "unterminated string")
			}

			tok.kind, tok.text = str, src[i:j+1]
			i = j + 1

		default:
			p := ""
			for _, cand := range punctuators {
				if strings.HasPrefix(src[i:end], cand) {
					p = cand
					break
				}
			}

			if p == "" {
				return nil, errorAt(pos, i, fmt.Sprintf("unexpected character %q", c))
			}

			tok.kind, tok.text = punct, p
			i += len(p)
		}

		toks = append(toks, tok)
	}

	line, column := pos.at(end)
	toks = append(toks, token{kind: eof, line: line, column: column, comments: comments})

	return toks, nil
}

func identStart(c byte) bool {
	return c == '_' || c == '$' || c == '#' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func identPart(c byte) bool {
	return identStart(c) || c >= '0' && c <= '9'
}

// SyntaxError is a fixture the reader cannot parse.
type SyntaxError struct {
	Line, Column int
	Msg          string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

func errorAt(pos positions, offset int, msg string) error {
	line, column := pos.at(offset)

	return &SyntaxError{Line: line, Column: column, Msg: msg}
}
