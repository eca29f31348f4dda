// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

// Package inmem keeps vigil's cache, profiles, and usage ledger in process
// memory. It backs tests and configurations without a sqlite path; nothing
// survives a restart.
package inmem
