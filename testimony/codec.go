package testimony

import (
	"encoding/binary"
	"fmt"

	"github.com/latticenet/core/hash"
)

// Wire type tags, matching the tagged byte blob the original AI testimony
// scheme writes ahead of its content (0x02 there marks an AI testimony;
// cryptographic testimonies get 0x01 here since the original never stored
// them as lattice content directly).
const (
	tagCryptoTestimony byte = 0x01
	tagAITestimony     byte = 0x02
	codecVersion       byte = 0x01
)

// EncodeCrypto serializes t into the canonical tagged byte blob used when a
// testimony is itself stored as lattice content.
func EncodeCrypto(t CryptoTestimony) []byte {
	e := hash.NewEncoder(2 + hash.Size*2 + len(t.Signature) + 8)
	e.Byte(tagCryptoTestimony)
	e.Byte(codecVersion)
	e.Raw(t.Target[:])
	e.Raw(t.Attestor[:])
	e.Bytes(t.Signature)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(t.ObservedAt.Unix()))
	e.Raw(ts[:])
	return e.Out()
}

// EncodeAI serializes t into the canonical tagged byte blob.
func EncodeAI(t AITestimony) []byte {
	e := hash.NewEncoder(256 + len(t.Evidence)*hash.Size)
	e.Byte(tagAITestimony)
	e.Byte(codecVersion)
	e.Raw(EncodeCrypto(t.Base))
	e.Raw(t.AgentID[:])
	e.Byte(byte(t.AgentType))
	e.Byte(byte(t.Verdict))
	confScaled := uint16(t.Confidence * 10000)
	var cb [2]byte
	binary.BigEndian.PutUint16(cb[:], confScaled)
	e.Raw(cb[:])
	e.Byte(byte(t.Risk.Level))
	e.Byte(t.Risk.Score)
	e.Count(len(t.Evidence))
	for _, ev := range t.Evidence {
		e.Raw(ev[:])
	}
	return e.Out()
}

// PeekTag reports the wire type tag of an encoded testimony blob without
// fully decoding it, so a caller inspecting lattice content can dispatch
// to the right decoder.
func PeekTag(blob []byte) (byte, error) {
	if len(blob) < 2 {
		return 0, fmt.Errorf("testimony: blob too short to contain a tag")
	}
	return blob[0], nil
}
