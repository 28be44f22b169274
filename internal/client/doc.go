// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the PromptShield client runtime.
//
// It wires local storage, the API adapter, the services and the terminal UI
// into a single process lifecycle.
package client
