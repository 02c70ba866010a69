// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"os"
	"path"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"
)

func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

func InitSubDirectory(rootPath string, name string) (string, error) {
	p := path.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// Paginate returns the [offset, offset+limit) window of a sequence of
// length [total]. A zero limit selects everything after offset.
func Paginate(total, offset, limit uint64) (uint64, uint64) {
	if offset >= total {
		return total, total
	}
	end := total
	if limit > 0 && limit < total-offset {
		end = offset + limit
	}
	return offset, end
}
