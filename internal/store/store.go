// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store persists selected interval sets in ordered key/value
// stores.
package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"modernc.org/kv"

	"github.com/kortschak/exemplar/interval"
)

// Names of the persisted stores.
const (
	PositionDB = "position.db"
	ScoreDB    = "score.db"
)

// CompareFor returns the kv compare function for the store with
// the given base name.
var CompareFor = map[string]func(x, y []byte) int{
	PositionDB: ByPosition,
	ScoreDB:    ByScore,
}

// ByPosition is a kv compare function, ordering by chromosome name,
// start, end and origin index.
func ByPosition(x, y []byte) int {
	if bytes.Equal(x, y) {
		return 0
	}

	kx := UnmarshalKey(x)
	ky := UnmarshalKey(y)

	switch {
	case kx.Chrom < ky.Chrom:
		return -1
	case kx.Chrom > ky.Chrom:
		return 1
	}
	switch {
	case kx.Start < ky.Start:
		return -1
	case kx.Start > ky.Start:
		return 1
	}
	switch {
	case kx.End < ky.End:
		return -1
	case kx.End > ky.End:
		return 1
	}

	// Ensure key uniqueness.
	switch {
	case kx.Index < ky.Index:
		return -1
	case kx.Index > ky.Index:
		return 1
	}

	panic("unreachable")
}

// ByScore is a kv compare function, ordering by descending score and
// then by position.
func ByScore(x, y []byte) int {
	if bytes.Equal(x, y) {
		return 0
	}

	kx := UnmarshalKey(x)
	ky := UnmarshalKey(y)

	// Higher scoring intervals first.
	switch {
	case kx.Score > ky.Score:
		return -1
	case kx.Score < ky.Score:
		return 1
	}

	return ByPosition(x, y)
}

// MarshalInt returns a slice encoding n as an int64.
func MarshalInt(n int) []byte {
	var buf [8]byte
	order.PutUint64(buf[:], uint64(n))
	return buf[:]
}

// UnmarshalInt returns the int encoded in data by MarshalInt.
func UnmarshalInt(data []byte) int {
	return int(int64(order.Uint64(data)))
}

// Key is the decoded form of a stored interval key.
type Key struct {
	Chrom string
	Start int64
	End   int64
	Score float64
	Index int64
}

// Scored returns the interval described by k.
func (k Key) Scored() interval.Scored {
	return interval.Scored{
		Chrom: k.Chrom,
		Start: int(k.Start),
		End:   int(k.End),
		Score: k.Score,
		Index: int(k.Index),
	}
}

var order = binary.BigEndian

// MarshalKey returns the store key for iv.
func MarshalKey(iv interval.Scored) []byte {
	var (
		buf bytes.Buffer
		b   [8]byte
	)
	order.PutUint64(b[:], uint64(len(iv.Chrom)))
	buf.Write(b[:])
	buf.WriteString(iv.Chrom)
	order.PutUint64(b[:], uint64(iv.Start))
	buf.Write(b[:])
	order.PutUint64(b[:], uint64(iv.End))
	buf.Write(b[:])
	order.PutUint64(b[:], math.Float64bits(iv.Score))
	buf.Write(b[:])
	order.PutUint64(b[:], uint64(iv.Index))
	buf.Write(b[:])
	return buf.Bytes()
}

// UnmarshalKey decodes a key produced by MarshalKey.
func UnmarshalKey(data []byte) Key {
	var k Key
	n64 := binary.Size(uint64(0))
	n := order.Uint64(data[:n64])
	data = data[n64:]
	k.Chrom = string(data[:n])
	data = data[n:]
	k.Start = int64(order.Uint64(data[:n64]))
	data = data[n64:]
	k.End = int64(order.Uint64(data[:n64]))
	data = data[n64:]
	k.Score = math.Float64frombits(order.Uint64(data[:n64]))
	data = data[n64:]
	k.Index = int64(order.Uint64(data[:n64]))
	return k
}

// Write creates the position and score stores for ivs in dir. The value
// stored with each interval is its rank in ivs.
func Write(dir string, ivs []interval.Scored) error {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}
	for _, name := range []string{PositionDB, ScoreDB} {
		err = write(filepath.Join(dir, name), CompareFor[name], ivs)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

func write(path string, compare func(x, y []byte) int, ivs []interval.Scored) (err error) {
	db, err := kv.Create(path, &kv.Options{Compare: compare})
	if err != nil {
		return err
	}
	defer func() {
		cerr := db.Close()
		if err == nil {
			err = cerr
		}
	}()

	err = db.BeginTransaction()
	if err != nil {
		return err
	}
	for i, iv := range ivs {
		err = db.Set(MarshalKey(iv), MarshalInt(i))
		if err != nil {
			db.Rollback()
			return err
		}
	}
	return db.Commit()
}

// Walk calls fn for each interval in the store at path in store order,
// along with the interval's rank in the set that was written. The store
// kind is determined by the base name of path. Walk stops and returns
// the first error returned by fn.
func Walk(path string, fn func(k Key, rank int) error) (err error) {
	compare, ok := CompareFor[filepath.Base(path)]
	if !ok {
		return fmt.Errorf("unknown store: %s", path)
	}
	db, err := kv.Open(path, &kv.Options{Compare: compare})
	if err != nil {
		return err
	}
	defer func() {
		cerr := db.Close()
		if err == nil {
			err = cerr
		}
	}()

	it, err := db.SeekFirst()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	for {
		k, v, err := it.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		err = fn(UnmarshalKey(k), UnmarshalInt(v))
		if err != nil {
			return err
		}
	}
}
