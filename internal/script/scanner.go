// internal/script/scanner.go
package script

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// Record type codes observed in STCM2L script sections. 0x07 and 0x0F are
// context-dependent; 0x10 carries a placeholder size field instead of a
// real payload length.
const (
	typeChoiceEN    = 0x01
	typeSpeakerA    = 0x02
	typeSpeakerB    = 0x03
	typeDialogue    = 0x04
	typeAmbiguousA  = 0x07
	typeAmbiguousB  = 0x0F
	typeFixedSize   = 0x10
	typeNarration   = 0x12
	maxEntryIndex   = 100000
	minCompactSize  = 4
)

// KnownTypes is the default set of record type codes the scanner accepts.
// Adding a code to this set only adds entries to the scan result; it never
// removes any.
func KnownTypes() map[uint32]bool {
	known := make(map[uint32]bool, 0x12)
	for t := uint32(0x01); t <= 0x12; t++ {
		known[t] = true
	}
	return known
}

// Scanner walks a script buffer and yields raw candidate records for the
// compact and padded record layouts. The buffer is never modified.
type Scanner struct {
	buf   []byte
	known map[uint32]bool
	h     Heuristics
}

// NewScanner returns a Scanner over buf accepting the given type codes.
// A nil known set means KnownTypes().
func NewScanner(buf []byte, known map[uint32]bool, h Heuristics) *Scanner {
	if known == nil {
		known = KnownTypes()
	}
	return &Scanner{buf: buf, known: known, h: h}
}

// Scan runs the compact pass and the padded pass over the whole buffer and
// returns the merged result ordered by offset. Both passes can see the same
// physical record; duplicates are collapsed by header offset, never by the
// Index field. Malformed headers are skipped with minimal forward progress
// and are never fatal.
func (s *Scanner) Scan() []RawEntry {
	compact := s.scanCompact()
	padded := s.scanPadded()

	byOffset := make(map[int]bool, len(compact))
	entries := make([]RawEntry, 0, len(compact)+len(padded))
	for _, e := range compact {
		entries = append(entries, e)
		byOffset[e.Offset] = true
	}
	for _, e := range padded {
		if !byOffset[e.Offset] {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Offset < entries[j].Offset })
	return entries
}

// scanCompact reads the layout with no leading padding:
// type(4) index(4) size(4) payload(size).
func (s *Scanner) scanCompact() []RawEntry {
	var entries []RawEntry
	pos := 0
	for pos+12 <= len(s.buf) {
		typ := binary.LittleEndian.Uint32(s.buf[pos : pos+4])
		if !s.known[typ] {
			pos++
			continue
		}
		index := binary.LittleEndian.Uint32(s.buf[pos+4 : pos+8])
		if index > maxEntryIndex {
			pos++
			continue
		}
		size := int(binary.LittleEndian.Uint32(s.buf[pos+8 : pos+12]))
		if typ == typeFixedSize {
			size = s.probeFixedSize(pos + 12)
			if size < 1 {
				pos++
				continue
			}
		} else if size < minCompactSize || size > s.h.MaxDeclaredSize {
			pos++
			continue
		}
		end := pos + 12 + size
		if end > len(s.buf) {
			break
		}
		entries = append(entries, RawEntry{
			Offset: pos,
			Type:   typ,
			Index:  index,
			Size:   size,
			Text:   decodePayload(s.buf[pos+12 : end]),
		})
		pos = end
		for pos < len(s.buf)-16 && s.buf[pos] == 0x00 {
			pos++
		}
	}
	return entries
}

// scanPadded reads the layout with 4 or 8 zero bytes before the same
// 12-byte header. The padding width varies even within one file, so it is
// probed per record. Offsets are recorded at the header, not the padding,
// so a record found by both passes collapses to one entry.
func (s *Scanner) scanPadded() []RawEntry {
	var entries []RawEntry
	pos := 0
	for pos < len(s.buf)-24 {
		if !allZero(s.buf[pos : pos+4]) {
			pos++
			continue
		}
		pad := 4
		if pos+8 <= len(s.buf) && allZero(s.buf[pos+4:pos+8]) {
			pad = 8
		}
		header := pos + pad
		if header+12 > len(s.buf) {
			break
		}
		typ := binary.LittleEndian.Uint32(s.buf[header : header+4])
		if !s.known[typ] {
			pos++
			continue
		}
		index := binary.LittleEndian.Uint32(s.buf[header+4 : header+8])
		if index > maxEntryIndex {
			pos++
			continue
		}
		size := int(binary.LittleEndian.Uint32(s.buf[header+8 : header+12]))
		if typ == typeFixedSize {
			size = s.probeFixedSize(header + 12)
			if size < 1 {
				pos++
				continue
			}
		} else if size < 1 || size > s.h.MaxDeclaredSize {
			pos++
			continue
		}
		end := header + 12 + size
		if end > len(s.buf) {
			break
		}
		entries = append(entries, RawEntry{
			Offset: header,
			Type:   typ,
			Index:  index,
			Size:   size,
			Text:   decodePayload(s.buf[header+12 : end]),
		})
		pos = end
	}
	return entries
}

// probeFixedSize finds the true payload length of a placeholder-size record
// by scanning forward for a null terminator, bounded by MaxPlaceholderScan.
// A null followed by at least one more null is the record boundary; a lone
// null inside the window is payload noise and is skipped.
func (s *Scanner) probeFixedSize(start int) int {
	end := start
	for end < len(s.buf) && end-start < s.h.MaxPlaceholderScan {
		if s.buf[end] == 0x00 {
			if end+1 >= len(s.buf) || s.buf[end+1] == 0x00 {
				break
			}
		}
		end++
	}
	return end - start
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// decodePayload strips trailing null padding and interprets the payload as
// UTF-8. Invalid sequences surface as replacement runes and are rejected
// downstream by the validator.
func decodePayload(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}
