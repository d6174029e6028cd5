// Copyright 2024 The cds-pg-sub004 Authors.
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

package probe

import "github.com/ehb93/cds-pg-sub004/csn"

// Lint returns every diagnostic on pos's file, ordered the same way
// sink.Messages() stably sorts them; when pos.Line is non-zero the result is
// narrowed to the messages whose primary location is on that line, falling
// back to the whole-file list when nothing sits on that exact line (spec.md
// §6 `lint ‹line› ‹col› ‹file›`).
func Lint(sink *csn.Sink, pos Position) []csn.Message {
	var fileMsgs, lineMsgs []csn.Message
	for _, msg := range sink.Messages() {
		if msg.Loc.File != pos.File {
			continue
		}
		fileMsgs = append(fileMsgs, msg)
		if msg.Loc.Line == pos.Line {
			lineMsgs = append(lineMsgs, msg)
		}
	}
	if len(lineMsgs) > 0 {
		return lineMsgs
	}
	return fileMsgs
}
