package core

import (
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
)

// PacketInfo represents the packet information that is acquired from a SendPacket event or
// a pair of RecvPacket/WriteAcknowledgement events. In the former case, the `Acknowledgement`
// field becomes nil. In the latter case, `EventHeight` represents the height in which the
// underlying WriteAcknowledgement event occurs.
type PacketInfo struct {
	chantypes.Packet
	Acknowledgement []byte             `json:"acknowledgement"`
	EventHeight     clienttypes.Height `json:"event_height"`
}

// PacketInfoList represents a list of PacketInfo that is sorted in the order in which
// underlying events occur.
type PacketInfoList []*PacketInfo

func (ps PacketInfoList) ExtractSequenceList() []uint64 {
	var seqs []uint64
	for _, p := range ps {
		seqs = append(seqs, p.Sequence)
	}
	return seqs
}

// Filter returns the packets whose sequences are contained in `seqs`, preserving order.
func (ps PacketInfoList) Filter(seqs []uint64) PacketInfoList {
	var ret PacketInfoList
	for _, p := range ps {
		for _, seq := range seqs {
			if p.Sequence == seq {
				ret = append(ret, p)
				break
			}
		}
	}
	return ret
}

// Subtract returns the packets whose sequences are NOT contained in `seqs`, preserving order.
func (ps PacketInfoList) Subtract(seqs []uint64) PacketInfoList {
	var ret PacketInfoList
out:
	for _, p := range ps {
		for _, seq := range seqs {
			if p.Sequence == seq {
				continue out
			}
		}
		ret = append(ret, p)
	}
	return ret
}

// SubtractSequences returns the elements of `sent` that are absent from `received`,
// preserving the order of `sent`. Chains that cannot answer unreceived-packet queries
// natively can implement them with this diff.
func SubtractSequences(sent, received []uint64) []uint64 {
	recv := make(map[uint64]struct{}, len(received))
	for _, seq := range received {
		recv[seq] = struct{}{}
	}
	var ret []uint64
	for _, seq := range sent {
		if _, ok := recv[seq]; !ok {
			ret = append(ret, seq)
		}
	}
	return ret
}
