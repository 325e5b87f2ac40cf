// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package testutil provides shared helpers for memsafe tests.
//
//   - CaptureOutput runs a function with os.Stdout redirected to a pipe
//   - TempDir creates a 0750 directory removed at test cleanup
//   - WriteFile writes a fixture file with explicit permissions
//   - Contains is a string assertion shorthand
//
// All helpers call t.Helper() so failures point at the calling test.
package testutil
