package messages

import (
	"bytes"
	"fmt"
	"io"

	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
)

// Field slots of the Message table.
const (
	messageFieldSessionID = iota
	messageFieldType
	messageFieldPayload
	messageFieldCount
)

// Field slots of the GameState table.
const (
	gameStateFieldSessionID = iota
	gameStateFieldTimestamp
	gameStateFieldTick
	gameStateFieldGridSize
	gameStateFieldSnake
	gameStateFieldDirection
	gameStateFieldNextDirection
	gameStateFieldHasFood
	gameStateFieldFoodX
	gameStateFieldFoodY
	gameStateFieldScore
	gameStateFieldIsGameOver
	gameStateFieldIsPaused
	gameStateFieldCount
)

// pointSize is the size of a Point struct (two int32) inside a vector
const pointSize = 8

var directionCodes = map[gametypes.Direction]byte{
	gametypes.DirectionUp:    1,
	gametypes.DirectionDown:  2,
	gametypes.DirectionLeft:  3,
	gametypes.DirectionRight: 4,
}

var directionsByCode = map[byte]gametypes.Direction{
	1: gametypes.DirectionUp,
	2: gametypes.DirectionDown,
	3: gametypes.DirectionLeft,
	4: gametypes.DirectionRight,
}

func SerializeMessage(m *Message) ([]byte, error) {
	b, err := SerializeMessageFlatbuffer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}

	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress message: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return compressed.Bytes(), nil
}

func DeserializeMessage(data []byte) (*Message, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()

	b, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read decompressed message: %v", err)
	}

	message, err := DeserializeMessageFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return message, nil
}

func SerializeMessageFlatbuffer(m *Message) ([]byte, error) {
	builder := flatbuffers.NewBuilder(0)

	sessionID := builder.CreateString(m.SessionID)
	payload := builder.CreateByteVector(m.Payload)

	builder.StartObject(messageFieldCount)
	builder.PrependUOffsetTSlot(messageFieldSessionID, sessionID, 0)
	builder.PrependByteSlot(messageFieldType, byte(m.Type), 0)
	builder.PrependUOffsetTSlot(messageFieldPayload, payload, 0)
	builder.Finish(builder.EndObject())

	return builder.FinishedBytes(), nil
}

func DeserializeMessageFlatbuffer(b []byte) (message *Message, err error) {
	defer recoverMalformed(&err)

	tab, err := rootTable(b)
	if err != nil {
		return nil, err
	}

	message = &Message{}
	if o := fieldOffset(tab, messageFieldSessionID); o != 0 {
		message.SessionID = string(tab.ByteVector(o + tab.Pos))
	}
	if o := fieldOffset(tab, messageFieldType); o != 0 {
		message.Type = MessageType(tab.GetByte(o + tab.Pos))
	}
	if o := fieldOffset(tab, messageFieldPayload); o != 0 {
		payload := tab.ByteVector(o + tab.Pos)
		message.Payload = make([]byte, len(payload))
		copy(message.Payload, payload)
	}

	return message, nil
}

func SerializeGameState(update *ServerGameUpdate) ([]byte, error) {
	builder := flatbuffers.NewBuilder(0)
	gameState := SerializeGameStateFlatbuffer(builder, update)
	builder.Finish(gameState)
	return builder.FinishedBytes(), nil
}

func DeserializeGameState(b []byte) (*ServerGameUpdate, error) {
	gameState, err := DeserializeGameStateFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize game state: %v", err)
	}

	return gameState, nil
}

func SerializeGameStateFlatbuffer(builder *flatbuffers.Builder, update *ServerGameUpdate) flatbuffers.UOffsetT {
	state := update.State

	sessionID := builder.CreateString(update.SessionID)

	builder.StartVector(pointSize, len(state.Snake), 4)
	for i := len(state.Snake) - 1; i >= 0; i-- {
		builder.Prep(4, pointSize)
		builder.PrependInt32(int32(state.Snake[i].Y))
		builder.PrependInt32(int32(state.Snake[i].X))
	}
	snake := builder.EndVector(len(state.Snake))

	builder.StartObject(gameStateFieldCount)
	builder.PrependUOffsetTSlot(gameStateFieldSessionID, sessionID, 0)
	builder.PrependInt64Slot(gameStateFieldTimestamp, update.Timestamp, 0)
	builder.PrependInt64Slot(gameStateFieldTick, update.Tick, 0)
	builder.PrependInt32Slot(gameStateFieldGridSize, int32(state.GridSize), 0)
	builder.PrependUOffsetTSlot(gameStateFieldSnake, snake, 0)
	builder.PrependByteSlot(gameStateFieldDirection, directionCodes[state.Direction], 0)
	builder.PrependByteSlot(gameStateFieldNextDirection, directionCodes[state.NextDirection], 0)
	if state.Food != nil {
		builder.PrependBoolSlot(gameStateFieldHasFood, true, false)
		builder.PrependInt32Slot(gameStateFieldFoodX, int32(state.Food.X), 0)
		builder.PrependInt32Slot(gameStateFieldFoodY, int32(state.Food.Y), 0)
	}
	builder.PrependInt32Slot(gameStateFieldScore, int32(state.Score), 0)
	builder.PrependBoolSlot(gameStateFieldIsGameOver, state.IsGameOver, false)
	builder.PrependBoolSlot(gameStateFieldIsPaused, state.IsPaused, false)

	return builder.EndObject()
}

func DeserializeGameStateFlatbuffer(b []byte) (update *ServerGameUpdate, err error) {
	defer recoverMalformed(&err)

	tab, err := rootTable(b)
	if err != nil {
		return nil, err
	}

	update = &ServerGameUpdate{}
	if o := fieldOffset(tab, gameStateFieldSessionID); o != 0 {
		update.SessionID = string(tab.ByteVector(o + tab.Pos))
	}
	update.Timestamp = getInt64(tab, gameStateFieldTimestamp)
	update.Tick = getInt64(tab, gameStateFieldTick)

	state := gametypes.GameState{
		GridSize:      int(getInt32(tab, gameStateFieldGridSize)),
		Direction:     directionsByCode[getByte(tab, gameStateFieldDirection)],
		NextDirection: directionsByCode[getByte(tab, gameStateFieldNextDirection)],
		Score:         int(getInt32(tab, gameStateFieldScore)),
		IsGameOver:    getBool(tab, gameStateFieldIsGameOver),
		IsPaused:      getBool(tab, gameStateFieldIsPaused),
	}
	if o := fieldOffset(tab, gameStateFieldSnake); o != 0 {
		start := tab.Vector(o)
		n := tab.VectorLen(o)
		state.Snake = make([]gametypes.Point, n)
		for i := 0; i < n; i++ {
			pos := start + flatbuffers.UOffsetT(i*pointSize)
			state.Snake[i] = gametypes.Point{
				X: int(tab.GetInt32(pos)),
				Y: int(tab.GetInt32(pos + 4)),
			}
		}
	}
	if getBool(tab, gameStateFieldHasFood) {
		state.Food = &gametypes.Point{
			X: int(getInt32(tab, gameStateFieldFoodX)),
			Y: int(getInt32(tab, gameStateFieldFoodY)),
		}
	}
	update.State = state

	return update, nil
}

func rootTable(b []byte) (*flatbuffers.Table, error) {
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("buffer too short: %d bytes", len(b))
	}
	pos := flatbuffers.GetUOffsetT(b)
	if int(pos) >= len(b) {
		return nil, fmt.Errorf("root offset %d out of range", pos)
	}
	return &flatbuffers.Table{Bytes: b, Pos: pos}, nil
}

// fieldOffset returns the offset of a field relative to the table, or 0 if the field is absent.
func fieldOffset(tab *flatbuffers.Table, field int) flatbuffers.UOffsetT {
	return flatbuffers.UOffsetT(tab.Offset(flatbuffers.VOffsetT(4 + 2*field)))
}

func getInt64(tab *flatbuffers.Table, field int) int64 {
	if o := fieldOffset(tab, field); o != 0 {
		return tab.GetInt64(o + tab.Pos)
	}
	return 0
}

func getInt32(tab *flatbuffers.Table, field int) int32 {
	if o := fieldOffset(tab, field); o != 0 {
		return tab.GetInt32(o + tab.Pos)
	}
	return 0
}

func getByte(tab *flatbuffers.Table, field int) byte {
	if o := fieldOffset(tab, field); o != 0 {
		return tab.GetByte(o + tab.Pos)
	}
	return 0
}

func getBool(tab *flatbuffers.Table, field int) bool {
	if o := fieldOffset(tab, field); o != 0 {
		return tab.GetBool(o + tab.Pos)
	}
	return false
}

// recoverMalformed turns an out-of-range read on a corrupt buffer into an error.
func recoverMalformed(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("malformed flatbuffer: %v", r)
	}
}
