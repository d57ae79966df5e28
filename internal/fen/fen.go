// Package fen emits Forsyth-Edwards Notation for a position (spec.md §6).
// Parsing is test/setup tooling only and is never reachable from the
// protocol adapter.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotochess/rotochess/pkg/board"
)

// Encode renders pos in standard FEN: ranks 8->1, files a->h, empty-square
// run-lengths, side to move, castle rights, en-passant square, halfmove
// clock, and fullmove number emitted as (fullmove_counter+1)/2.
func Encode(pos *board.Position) string {
	var sb strings.Builder

	for r := int(board.Rank8); r >= int(board.Rank1); r-- {
		run := 0
		for f := 0; f < 8; f++ {
			sq := board.NewSquare(board.File(f), board.Rank(r))
			c, p, ok := pos.PieceAt(sq)
			if !ok {
				run++
				continue
			}
			if run > 0 {
				sb.WriteString(strconv.Itoa(run))
				run = 0
			}
			letter := p.String()
			if c == board.White {
				letter = strings.ToUpper(letter)
			}
			sb.WriteString(letter)
		}
		if run > 0 {
			sb.WriteString(strconv.Itoa(run))
		}
		if r > int(board.Rank1) {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(pos.SideToMove().String())

	sb.WriteByte(' ')
	sb.WriteString(pos.Castling().String())

	sb.WriteByte(' ')
	if sq, ok := pos.EnPassant(); ok {
		sb.WriteString(sq.String())
	} else {
		sb.WriteByte('-')
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.HalfmoveClock()))

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa((pos.FullmoveCounter() + 1) / 2))

	return sb.String()
}

// Decode parses a FEN board-setup string into a fresh Position. It serves test
// fixtures and cmd/perft's -fen flag; nothing in the protocol adapter calls it.
func Decode(zt *board.ZobristTable, s string) (*board.Position, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen: need at least 4 fields, got %d", len(fields))
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen: need 8 ranks, got %d", len(ranks))
	}

	placements := make(map[board.Square][2]byte)
	for i, rank := range ranks {
		r := 7 - i
		f := 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				f += int(ch - '0')
				continue
			}
			p, ok := board.ParsePiece(ch)
			if !ok {
				return nil, fmt.Errorf("fen: bad piece letter %q", ch)
			}
			c := board.Black
			if ch >= 'A' && ch <= 'Z' {
				c = board.White
			}
			sq := board.NewSquare(board.File(f), board.Rank(r))
			placements[sq] = [2]byte{byte(c), byte(p)}
			f++
		}
	}

	pos := board.NewEmptyPosition(zt)
	for sq, cp := range placements {
		pos.PlaceForSetup(sq, board.Color(cp[0]), board.Piece(cp[1]))
	}

	if len(fields) > 1 && fields[1] == "b" {
		pos.SetSideToMoveForSetup(board.Black)
	}

	if len(fields) > 2 {
		var c board.Castling
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				c |= board.WhiteKingSide
			case 'Q':
				c |= board.WhiteQueenSide
			case 'k':
				c |= board.BlackKingSide
			case 'q':
				c |= board.BlackQueenSide
			}
		}
		pos.SetCastlingForSetup(c)
	}

	if len(fields) > 3 && fields[3] != "-" {
		sq, err := board.ParseSquareStr(fields[3])
		if err == nil {
			pos.SetEnPassantForSetup(sq)
		}
	}

	if len(fields) > 4 {
		if n, err := strconv.Atoi(fields[4]); err == nil {
			pos.SetHalfmoveClockForSetup(uint8(n))
		}
	}
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil {
			// Inverse of Encode's (fullmove_counter+1)/2: reconstructing the exact
			// ply count from a fullmove number loses one bit of parity, so we pick
			// the odd preimage (spec.md's "modulo fullmove counter parity").
			pos.SetFullmoveCounterForSetup(n*2 - 1)
		}
	}

	pos.FinishSetup()
	return pos, nil
}
