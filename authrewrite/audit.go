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

package authrewrite

import (
	"github.com/sirupsen/logrus"

	"github.com/ehb93/cds-pg-sub004/csn"
)

// AuditMethod is called to log the outcome of an authorisation decision,
// adapted from the teacher's auth.AuditMethod (its Authentication/Query
// hooks were connection/query-log specific and have no analogue here; only
// the Authorization hook survives).
type AuditMethod interface {
	Authorization(user *UserContext, id csn.ID, permission Permission, err error)
}

// LogrusAudit logs every authorisation decision through a logrus.Entry,
// the same logger sirupsen/logrus idiom csn.Sink uses for diagnostics.
type LogrusAudit struct {
	Logger *logrus.Entry
}

// NewLogrusAudit returns a LogrusAudit logging through logger, defaulting to
// the standard logrus logger's entry when logger is nil.
func NewLogrusAudit(logger *logrus.Entry) *LogrusAudit {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LogrusAudit{Logger: logger}
}

// Authorization implements AuditMethod.
func (a *LogrusAudit) Authorization(user *UserContext, id csn.ID, permission Permission, err error) {
	name := "<anonymous>"
	if user != nil {
		name = user.Name
	}
	entry := a.Logger.WithFields(logrus.Fields{
		"user":       name,
		"artifact":   id,
		"permission": permission.String(),
	})
	if err != nil {
		entry.WithError(err).Warn("authorization denied")
		return
	}
	entry.Debug("authorization granted")
}

// Audited wraps an AccessChecker so every Allowed call is reported to an
// AuditMethod before its result is returned (spec.md §4.6's request layer
// consults a Checker/AllowAll; Audited is the opt-in decorator a caller
// reaches for when it also wants an audit trail, mirroring the teacher's
// auth.NewAudit(auth, method) wrapping shape).
type Audited struct {
	Checker AccessChecker
	Audit   AuditMethod
}

// NewAudited wraps checker so every decision is also sent to method.
func NewAudited(checker AccessChecker, method AuditMethod) *Audited {
	return &Audited{Checker: checker, Audit: method}
}

// Allowed implements AccessChecker.
func (a *Audited) Allowed(user *UserContext, id csn.ID, permission Permission) error {
	err := a.Checker.Allowed(user, id, permission)
	a.Audit.Authorization(user, id, permission, err)
	return err
}
