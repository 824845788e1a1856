/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import "strings"

// sqlSplitter walks a migration script and cuts it at top-level semicolons.
// Semicolons inside quotes, comments and dollar-quoted bodies are kept.
type sqlSplitter struct {
	src        string
	pos        int
	buf        strings.Builder
	statements []string
}

func splitSQLStatements(content string) []string {
	s := &sqlSplitter{src: content}
	s.run()

	return s.statements
}

func (s *sqlSplitter) run() {
	for s.pos < len(s.src) {
		rest := s.src[s.pos:]

		switch {
		case strings.HasPrefix(rest, "--"):
			s.skipUntil("\n", false)
		case strings.HasPrefix(rest, "/*"):
			s.skipUntil("*/", true)
		case rest[0] == '\'' || rest[0] == '"':
			s.copyQuoted(rest[0])
		case rest[0] == '$':
			if tag := dollarTag(rest); tag != "" {
				s.copyDollarQuoted(tag)
			} else {
				s.buf.WriteByte('$')
				s.pos++
			}
		case rest[0] == ';':
			s.flush()
			s.pos++
		default:
			s.buf.WriteByte(rest[0])
			s.pos++
		}
	}

	s.flush()
}

// skipUntil drops text up to end. Line comments keep their newline.
func (s *sqlSplitter) skipUntil(end string, consume bool) {
	idx := strings.Index(s.src[s.pos:], end)
	if idx < 0 {
		s.pos = len(s.src)

		return
	}

	s.pos += idx
	if consume {
		s.pos += len(end)
	}
}

func (s *sqlSplitter) copyQuoted(quote byte) {
	s.buf.WriteByte(quote)
	s.pos++

	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		s.buf.WriteByte(ch)
		s.pos++

		if ch == quote {
			return
		}
	}
}

func (s *sqlSplitter) copyDollarQuoted(tag string) {
	s.buf.WriteString(tag)
	s.pos += len(tag)

	idx := strings.Index(s.src[s.pos:], tag)
	if idx < 0 {
		s.buf.WriteString(s.src[s.pos:])
		s.pos = len(s.src)

		return
	}

	s.buf.WriteString(s.src[s.pos : s.pos+idx+len(tag)])
	s.pos += idx + len(tag)
}

func (s *sqlSplitter) flush() {
	if stmt := strings.TrimSpace(s.buf.String()); stmt != "" {
		s.statements = append(s.statements, stmt)
	}

	s.buf.Reset()
}

// dollarTag returns "$$" or "$name$" at the start of content, or "".
func dollarTag(content string) string {
	for i := 1; i < len(content); i++ {
		ch := content[i]

		switch {
		case ch == '$':
			return content[:i+1]
		case ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z'):
		case ch >= '0' && ch <= '9' && i > 1:
		default:
			return ""
		}
	}

	return ""
}
