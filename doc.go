// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package cip implements a client for the Cresnet-over-IP (CIP) protocol
// used by Crestron control processors. A Client maintains one persistent
// TCP session with a processor and exchanges joins - named digital, analog
// and serial signals - in both directions.
package cip
