package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types persisted by the Badger vector store.

var (
	vectorMUS   = ord.NewSliceSer[float32](raw.Float32)
	metadataMUS = ord.NewMapSer[string, string](ord.String, ord.String)
)

var IndexSpecMUS = indexSpecMUS{}

type indexSpecMUS struct{}

func (s indexSpecMUS) Marshal(v IndexSpec, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += varint.PositiveInt.Marshal(v.Dimension, bs[n:])
	n += ord.String.Marshal(string(v.Metric), bs[n:])
	return n
}

func (s indexSpecMUS) Unmarshal(bs []byte) (v IndexSpec, n int, err error) {
	var n1 int
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.Dimension, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	var metric string
	metric, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	v.Metric = Metric(metric)
	return v, n, err
}

func (s indexSpecMUS) Size(v IndexSpec) (size int) {
	size = ord.String.Size(v.Name)
	size += varint.PositiveInt.Size(v.Dimension)
	size += ord.String.Size(string(v.Metric))
	return size
}

var EmbeddingRecordMUS = embeddingRecordMUS{}

type embeddingRecordMUS struct{}

func (s embeddingRecordMUS) Marshal(v EmbeddingRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	n += metadataMUS.Marshal(v.Metadata, bs[n:])
	return n
}

func (s embeddingRecordMUS) Unmarshal(bs []byte) (v EmbeddingRecord, n int, err error) {
	var n1 int
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (s embeddingRecordMUS) Size(v EmbeddingRecord) (size int) {
	size = ord.String.Size(v.ID)
	size += vectorMUS.Size(v.Vector)
	size += metadataMUS.Size(v.Metadata)
	return size
}
