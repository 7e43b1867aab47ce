// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mock

import (
	"context"

	"github.com/ethersphere/cfx-account/pkg/distributor"
)

func NewRecipientLister(recipients []string) distributor.RecipientLister {
	return &recipientLister{recipients: recipients}
}

// NewFailingRecipientLister returns a lister that always fails with err.
func NewFailingRecipientLister(err error) distributor.RecipientLister {
	return &recipientLister{err: err}
}

type recipientLister struct {
	recipients []string
	err        error
}

func (rl *recipientLister) List(ctx context.Context) ([]string, error) {
	return rl.recipients, rl.err
}
