// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distributor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

type RecipientLister interface {
	List(ctx context.Context) ([]string, error)
}

// NewRecipientLister lists the configured recipients followed by those of
// the recipients file, if set.
func NewRecipientLister(cfg Config) RecipientLister {
	return &recipientLister{
		addresses: cfg.Recipients,
		file:      cfg.RecipientsFile,
	}
}

type recipientLister struct {
	addresses []string
	file      string
}

func (rl *recipientLister) List(ctx context.Context) ([]string, error) {
	result := make([]string, 0, len(rl.addresses))
	result = append(result, rl.addresses...)

	if rl.file == "" {
		return result, nil
	}

	fromFile, err := readRecipientsFile(rl.file)
	if err != nil {
		return nil, err
	}

	return append(result, fromFile...), nil
}

// readRecipientsFile reads one address per line. Blank lines and lines
// starting with # are skipped.
func readRecipientsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipients file: %w", err)
	}
	defer f.Close()

	var result []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		result = append(result, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipients file: %w", err)
	}

	return result, nil
}
