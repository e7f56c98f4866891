// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"bufio"
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	pkgerrors "github.com/pkg/errors"
)

// withFile opens path and passes its contents to fn.
func withFile(ctx context.Context, path string, fn func(io.Reader) error) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return pkgerrors.Wrapf(err, "open %s", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	if err = fn(in.Reader(ctx)); err != nil {
		return errors.E(err, path)
	}
	return nil
}

// withInput is like withFile, but transparently decompresses gzip (and BGZF)
// data.
func withInput(ctx context.Context, path string, fn func(io.Reader) error) error {
	return withFile(ctx, path, func(r io.Reader) error {
		r, err := decompress(r)
		if err != nil {
			return err
		}
		return fn(r)
	})
}

// decompress returns a reader over the uncompressed contents of r. Gzip is
// detected by its magic number; other data is returned as is.
func decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		return gzip.NewReader(br)
	}
	return br, nil
}

// writeOutput writes data to path.
func writeOutput(ctx context.Context, path string, data []byte) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return pkgerrors.Wrapf(err, "create %s", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	if _, err = out.Writer(ctx).Write(data); err != nil {
		return pkgerrors.Wrapf(err, "write %s", path)
	}
	return nil
}
