// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the support chat service.
//
// The service exposes three JSON endpoints:
//
//	POST /chat      {"user_input": "..."}                    -> {"response": "..."}
//	POST /feedback  {"original_input","bot_reply","feedback"} -> {"message": "..."}
//	POST /reset     (empty body)                              -> {"message": "..."}
//
// # Key Types
//
//   - Client: Thread-safe HTTP client for the three endpoints
//   - ClientConfig: Base URL, timeout and request pacing
//   - ClientError: Typed error carrying an ErrorType and the failed operation
//
// # Usage
//
//	client := backend.NewClientWithConfig(&backend.ClientConfig{
//	    BaseURL: "http://127.0.0.1:5000",
//	})
//	resp, err := client.Chat(ctx, "my router keeps dropping")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Response)
//
// Requests carry no client-side timeout unless ClientConfig.Timeout is set.
package backend
