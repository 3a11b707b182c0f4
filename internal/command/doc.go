// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command wires the stockctl CLI: the query commands (qq, kq, fq)
// and cache maintenance (cq), their flags, and the shared plumbing that
// hands the injected cache store and quote client to each action.
package command
