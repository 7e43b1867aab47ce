// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfxclient

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

var ErrNonceOverflow = errors.New("nonce does not fit in 64 bits")

// RPCError is a JSON-RPC error object returned by the node. It satisfies
// rpc.Error and rpc.DataError so callers can treat errors coming from the
// go-ethereum transport and from tests alike.
type RPCError struct {
	Code    int
	Message string
	Data    interface{}
}

var (
	_ rpc.Error     = (*RPCError)(nil)
	_ rpc.DataError = (*RPCError)(nil)
)

func (e *RPCError) Error() string {
	if e.Data == nil {
		return e.Message
	}

	return fmt.Sprintf("%s: %v", e.Message, e.Data)
}

func (e *RPCError) ErrorCode() int {
	return e.Code
}

func (e *RPCError) ErrorData() interface{} {
	return e.Data
}

// AsRPCError reports whether err carries a JSON-RPC error object, that is the
// node received the request and rejected it. It returns the message and data
// of that object.
func AsRPCError(err error) (message string, data interface{}, ok bool) {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return "", nil, false
	}

	message = rpcErr.Error()

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		data = dataErr.ErrorData()
	}

	return message, data, true
}
