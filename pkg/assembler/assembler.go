// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/paul-mannino/chip8/pkg/encoding"
	"github.com/paul-mannino/chip8/pkg/machine"
)

type operandForm struct {
	Operands []OperandType
	Opcode   uint16
	Bits     LiteralType

	// Register operand is fixed to V0 and not encoded (JP V0, addr)
	Implied bool
}

var (
	regOnly     = []OperandType{OPERAND_REGISTER}
	regReg      = []OperandType{OPERAND_REGISTER, OPERAND_REGISTER}
	regValue    = []OperandType{OPERAND_REGISTER, OPERAND_VALUE}
	regRegValue = []OperandType{OPERAND_REGISTER, OPERAND_REGISTER, OPERAND_VALUE}
	valueOnly   = []OperandType{OPERAND_VALUE}
)

var instructionForms = map[InstructionType][]operandForm{
	INSTRUCTION_CLS: {{Opcode: 0x00E0}},
	INSTRUCTION_RET: {{Opcode: 0x00EE}},
	INSTRUCTION_JP: {
		{Operands: valueOnly, Opcode: 0x1000, Bits: LITERAL_ADDR},
		{Operands: regValue, Opcode: 0xB000, Bits: LITERAL_ADDR, Implied: true},
	},
	INSTRUCTION_CALL: {
		{Operands: valueOnly, Opcode: 0x2000, Bits: LITERAL_ADDR},
	},
	INSTRUCTION_SE: {
		{Operands: regValue, Opcode: 0x3000, Bits: LITERAL_BYTE},
		{Operands: regReg, Opcode: 0x5000},
	},
	INSTRUCTION_SNE: {
		{Operands: regValue, Opcode: 0x4000, Bits: LITERAL_BYTE},
		{Operands: regReg, Opcode: 0x9000},
	},
	INSTRUCTION_LD: {
		{Operands: regValue, Opcode: 0x6000, Bits: LITERAL_BYTE},
		{Operands: regReg, Opcode: 0x8000},
		{Operands: []OperandType{OPERAND_I, OPERAND_VALUE}, Opcode: 0xA000, Bits: LITERAL_ADDR},
		{Operands: []OperandType{OPERAND_REGISTER, OPERAND_DT}, Opcode: 0xF007},
		{Operands: []OperandType{OPERAND_REGISTER, OPERAND_K}, Opcode: 0xF00A},
		{Operands: []OperandType{OPERAND_DT, OPERAND_REGISTER}, Opcode: 0xF015},
		{Operands: []OperandType{OPERAND_ST, OPERAND_REGISTER}, Opcode: 0xF018},
		{Operands: []OperandType{OPERAND_F, OPERAND_REGISTER}, Opcode: 0xF029},
		{Operands: []OperandType{OPERAND_B, OPERAND_REGISTER}, Opcode: 0xF033},
		{Operands: []OperandType{OPERAND_INDIRECT, OPERAND_REGISTER}, Opcode: 0xF055},
		{Operands: []OperandType{OPERAND_REGISTER, OPERAND_INDIRECT}, Opcode: 0xF065},
	},
	INSTRUCTION_ADD: {
		{Operands: regValue, Opcode: 0x7000, Bits: LITERAL_BYTE},
		{Operands: regReg, Opcode: 0x8004},
		{Operands: []OperandType{OPERAND_I, OPERAND_REGISTER}, Opcode: 0xF01E},
	},
	INSTRUCTION_OR:   {{Operands: regReg, Opcode: 0x8001}},
	INSTRUCTION_AND:  {{Operands: regReg, Opcode: 0x8002}},
	INSTRUCTION_XOR:  {{Operands: regReg, Opcode: 0x8003}},
	INSTRUCTION_SUB:  {{Operands: regReg, Opcode: 0x8005}},
	INSTRUCTION_SUBN: {{Operands: regReg, Opcode: 0x8007}},
	INSTRUCTION_SHR: {
		{Operands: regOnly, Opcode: 0x8006},
		{Operands: regReg, Opcode: 0x8006},
	},
	INSTRUCTION_SHL: {
		{Operands: regOnly, Opcode: 0x800E},
		{Operands: regReg, Opcode: 0x800E},
	},
	INSTRUCTION_RND: {
		{Operands: regValue, Opcode: 0xC000, Bits: LITERAL_BYTE},
	},
	INSTRUCTION_DRW: {
		{Operands: regRegValue, Opcode: 0xD000, Bits: LITERAL_NIBBLE},
	},
	INSTRUCTION_SKP:  {{Operands: regOnly, Opcode: 0xE09E}},
	INSTRUCTION_SKNP: {{Operands: regOnly, Opcode: 0xE0A1}},
}

func parseDirective(ident string) DirectiveType {
	if directive, ok := directiveNames[strings.ToUpper(ident)]; ok {
		return directive
	}

	return DIRECTIVE_INVALID
}

func parseInstruction(ident string) InstructionType {
	if instruction, ok := instructionNames[strings.ToUpper(ident)]; ok {
		return instruction
	}

	return INSTRUCTION_INVALID
}

// Negative literals are accepted down to the signed minimum of the width and
// stored as two's complement.
func parseLiteral(token *Token, bits LiteralType) (uint16, error) {
	var value int32

	if strings.ContainsAny(token.Value, "xX") {
		result, err := encoding.DecodeHex(token.Value)

		if err != nil {
			return 0, &InvalidLiteralError{token.Position}
		}

		value = int32(result)
	} else if len(token.Value) > 1 && strings.ContainsAny(token.Value[1:2], "bB") {
		result, err := encoding.DecodeBinary(token.Value)

		if err != nil {
			return 0, &InvalidLiteralError{token.Position}
		}

		value = int32(result)
	} else {
		result, err := encoding.DecodeInt(token.Value)

		if err != nil {
			return 0, &InvalidLiteralError{token.Position}
		}

		value = result
	}

	limit := int32(1) << bits

	if value >= limit || value < -(limit>>1) {
		return 0, &OversizedLiteralError{token.Position, limit - 1, value}
	}

	return uint16(value) & uint16(limit-1), nil
}

func parseRegister(token *Token) (uint8, bool) {
	ident := token.Value

	if len(ident) != 2 || (ident[0] != 'V' && ident[0] != 'v') {
		return 0, false
	}

	reg, err := strconv.ParseUint(ident[1:], 16, 8)

	if err != nil {
		return 0, false
	}

	return uint8(reg), true
}

func parseOperand(token *Token) Operand {
	operand := Operand{Type: OPERAND_NONE, Token: token}

	switch token.Type {
	case TOKEN_LITERAL:
		operand.Type = OPERAND_LITERAL
	case TOKEN_IDENT:
		if reg, ok := parseRegister(token); ok {
			operand.Type = OPERAND_REGISTER
			operand.Register = reg
			break
		}

		switch strings.ToUpper(token.Value) {
		case "I":
			operand.Type = OPERAND_I
		case "[I]":
			operand.Type = OPERAND_INDIRECT
		case "DT":
			operand.Type = OPERAND_DT
		case "ST":
			operand.Type = OPERAND_ST
		case "K":
			operand.Type = OPERAND_K
		case "F":
			operand.Type = OPERAND_F
		case "B":
			operand.Type = OPERAND_B
		default:
			operand.Type = OPERAND_LABEL
		}
	}

	return operand
}

func accepts(want OperandType, have OperandType) bool {
	if want == OPERAND_VALUE {
		return have == OPERAND_LITERAL || have == OPERAND_LABEL
	}

	return want == have
}

// Picks the form whose operand list fits. When none does, the error points at
// the first operand that no remaining form accepts.
func matchForm(keyword *Token, forms []operandForm, operands []Operand) (*operandForm, error) {
	candidates := make([]*operandForm, 0, len(forms))

	for i := range forms {
		if len(forms[i].Operands) == len(operands) {
			candidates = append(candidates, &forms[i])
		}
	}

	if len(candidates) == 0 {
		return nil, &InvalidNumArgumentsError{
			keyword.Position, len(forms[0].Operands), len(operands),
		}
	}

	for i, operand := range operands {
		var required []OperandType
		var remaining []*operandForm

		for _, form := range candidates {
			want := form.Operands[i]

			if accepts(want, operand.Type) {
				remaining = append(remaining, form)
			}

			known := false
			for _, r := range required {
				known = known || r == want
			}

			if !known {
				required = append(required, want)
			}
		}

		if len(remaining) == 0 {
			return nil, &InvalidOperandError{
				operand.Token.Position, required, operand.Type,
			}
		}

		candidates = remaining
	}

	return candidates[0], nil
}

// Assembles CHIP-8 source into a program image meant to be loaded at 0x200.
// The returned slice spans from 0x200 to the last byte written.
func AssembleSource(input io.Reader, symtable *SymTable) (result []byte, errs []error) {
	type LabelRef struct {
		Label    string
		Addr     uint16
		Bits     LiteralType
		Position Cursor
	}

	var labels = make(map[string]uint16)
	var labelRefs []LabelRef

	var memory = make([]byte, machine.MEMORY_SIZE)
	var program = uint32(machine.MEMSPACE_PROGRAM)
	var end = program

	var builder strings.Builder
	var scanner = bufio.NewScanner(input)

	var cursor = Cursor{Line: 1, Column: 0, Size: 0, Byte: 0}

	errs = make([]error, 0)

	emit := func(values ...byte) bool {
		if program+uint32(len(values)) > machine.MEMORY_SIZE {
			errs = append(errs, &OversizedBinaryError{})
			return false
		}

		for _, value := range values {
			memory[program] = value
			program++
		}

		if program > end {
			end = program
		}

		return true
	}

	advance := func(line string) {
		cursor.Line++
		cursor.Byte += int64(len(line) + 1)
		cursor.LineByte += int64(len(line) + 1)
	}

	// Process:
	// - Parse line
	// - Assemble line
	for scanner.Scan() {
		var tokens = make([]Token, 0, 4)
		var tokenStart int = 0
		var tokenType TokenType = TOKEN_NONE

		var lineErrs = len(errs)

		line := scanner.Text()
		builder.Grow(len(line))

		cursor.Size = int64(len(line))

		// Parse Line:
		// - Gather tokens and their types
		// - Check for syntax errors
		for column, char := range line {
			cursor.Column = column + 1

			var flush bool = false
			var skip bool = false
			var keep bool = true

			if tokenType == TOKEN_NONE {
				tokenStart = cursor.Column
			}

			switch {
			// Whitespace
			case unicode.IsSpace(char):
				if tokenType == TOKEN_NONE {
					continue
				}

				flush = true
				keep = false

			// Comments
			case char == ';':
				flush = true
				skip = true
				keep = false

			// Operand Separator
			case char == ',':
				flush = true
				keep = false

			// Assembler Directives
			case char == '.':
				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_DIRECTIVE
				} else {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

			// Label terminator (i.e. loop:)
			case char == ':':
				if tokenType == TOKEN_IDENT && len(tokens) == 0 {
					flush = true
					keep = false
				} else {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

			// Base 10 Literal (i.e. #42) or Numeric Sign
			case char == '#' || char == '-':
				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_LITERAL
				} else {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

			// Numeric Literal (i.e. 42, 0x2A, 0b101010)
			case unicode.IsDigit(char):
				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_LITERAL
				}

			// Indirect operand (i.e. [I])
			case char == '[' || char == ']':
				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_IDENT
				} else if tokenType != TOKEN_IDENT {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

			// Identifier
			case char == '_' || unicode.IsLetter(char):
				if char > unicode.MaxASCII {
					errs = append(errs, &OversizedCharacterError{cursor})
				}

				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_IDENT
				}

			default:
				if char > unicode.MaxASCII {
					errs = append(errs, &OversizedCharacterError{cursor})
				} else {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}
			}

			if keep {
				builder.WriteRune(char)
			}

			if column+len(string(char)) == len(line) {
				if char == ',' {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

				flush = true
			}

			if flush {
				if builder.Len() > 0 {
					var token Token
					token.Position = Cursor{
						Line:     cursor.Line,
						Column:   tokenStart,
						Byte:     cursor.Byte + int64(tokenStart-1),
						Size:     int64(builder.Len()),
						LineByte: cursor.Byte,
					}
					token.Type = tokenType
					token.Value = builder.String()
					tokens = append(tokens, token)
					builder.Reset()
				}

				tokenType = TOKEN_NONE
			}

			if skip {
				break
			}
		}

		builder.Reset()

		if len(tokens) == 0 {
			advance(line)
			continue
		}

		// Pass any potential assembler errors if we already had parser errors
		if len(errs) > lineErrs {
			advance(line)
			continue
		}

		// Assemble line
		// - Write instruction bytes to memory
		// - Save label refs for later resolution
		// - Type check instruction arguments
		var label *Token = nil
		var directive DirectiveType
		var instruction InstructionType
		var keyword *Token = nil
		var operands []Operand

		classify := func(index int) {
			token := &tokens[index]

			if token.Type == TOKEN_IDENT {
				instruction = parseInstruction(token.Value)
			} else if token.Type == TOKEN_DIRECTIVE {
				directive = parseDirective(token.Value)
			}

			if instruction == INSTRUCTION_INVALID && directive == DIRECTIVE_INVALID {
				return
			}

			keyword = token

			for i := index + 1; i < len(tokens); i++ {
				operands = append(operands, parseOperand(&tokens[i]))
			}
		}

		classify(0)

		if keyword == nil && tokens[0].Type == TOKEN_IDENT {
			label = &tokens[0]

			if _, exists := labels[label.Value]; !exists {
				labels[label.Value] = uint16(program)
			} else {
				errs = append(
					errs, &RedeclaredLabelError{label.Position, label.Value},
				)
			}

			// No need to assemble label-only statements
			if len(tokens) == 1 {
				advance(line)
				continue
			}

			classify(1)
		}

		if keyword == nil {
			unknown := tokens[0]

			if label != nil {
				unknown = tokens[1]
			}

			errs = append(
				errs, &UnknownIdentifierError{unknown.Position, unknown.Value},
			)

			advance(line)
			continue
		}

		if directive == DIRECTIVE_END {
			if count := len(operands); count != 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 0, count},
				)
			}

			break
		}

		var start = uint16(program)
		var emitted bool = false

		switch directive {
		// .ORIG addr
		case DIRECTIVE_ORIG:
			if count := len(operands); count != 1 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, count},
				)

				break
			}

			if operands[0].Type != OPERAND_LITERAL {
				errs = append(
					errs,
					&InvalidOperandError{
						operands[0].Token.Position,
						[]OperandType{OPERAND_LITERAL},
						operands[0].Type,
					},
				)

				break
			}

			literal, err := parseLiteral(operands[0].Token, LITERAL_ADDR)

			if err != nil {
				errs = append(errs, err)
				break
			}

			if literal < machine.MEMSPACE_PROGRAM {
				errs = append(
					errs, &InvalidOriginError{operands[0].Token.Position, literal},
				)

				break
			}

			program = uint32(literal)

			if label != nil {
				labels[label.Value] = literal
			}

		// .DB byte[, byte...]
		case DIRECTIVE_DB:
			if len(operands) == 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, 0},
				)

				break
			}

			for _, operand := range operands {
				if operand.Type != OPERAND_LITERAL {
					errs = append(
						errs,
						&InvalidOperandError{
							operand.Token.Position,
							[]OperandType{OPERAND_LITERAL},
							operand.Type,
						},
					)

					continue
				}

				literal, err := parseLiteral(operand.Token, LITERAL_BYTE)

				if err != nil {
					errs = append(errs, err)
				}

				if !emit(uint8(literal)) {
					return nil, errs
				}
			}

			emitted = true

		// .DW word[, word...]
		case DIRECTIVE_DW:
			if len(operands) == 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, 0},
				)

				break
			}

			for _, operand := range operands {
				var literal uint16

				switch operand.Type {
				case OPERAND_LITERAL:
					var err error

					literal, err = parseLiteral(operand.Token, LITERAL_WORD)

					if err != nil {
						errs = append(errs, err)
					}
				case OPERAND_LABEL:
					labelRefs = append(
						labelRefs,
						LabelRef{
							operand.Token.Value,
							uint16(program),
							LITERAL_WORD,
							operand.Token.Position,
						},
					)
				default:
					errs = append(
						errs,
						&InvalidOperandError{
							operand.Token.Position,
							[]OperandType{OPERAND_LITERAL, OPERAND_LABEL},
							operand.Type,
						},
					)

					continue
				}

				if !emit(uint8(literal>>8), uint8(literal)) {
					return nil, errs
				}
			}

			emitted = true

		// .BLKB count[, fill]
		case DIRECTIVE_BLKB:
			if count := len(operands); count != 1 && count != 2 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, count},
				)

				break
			}

			var values [2]uint16
			var valid = true

			for i, operand := range operands {
				if operand.Type != OPERAND_LITERAL {
					errs = append(
						errs,
						&InvalidOperandError{
							operand.Token.Position,
							[]OperandType{OPERAND_LITERAL},
							operand.Type,
						},
					)

					valid = false
					continue
				}

				bits := LITERAL_ADDR
				if i == 1 {
					bits = LITERAL_BYTE
				}

				literal, err := parseLiteral(operand.Token, bits)

				if err != nil {
					errs = append(errs, err)
					valid = false
				}

				values[i] = literal
			}

			if !valid {
				break
			}

			block := make([]byte, values[0])
			for i := range block {
				block[i] = uint8(values[1])
			}

			if !emit(block...) {
				return nil, errs
			}

			emitted = true
		}

		if instruction != INSTRUCTION_INVALID {
			var scratch uint16 = 0

			form, err := matchForm(keyword, instructionForms[instruction], operands)

			if err != nil {
				errs = append(errs, err)
			} else {
				scratch = form.Opcode
				registers := 0

				// |op     |X      |Y      |N      | Register slots fill X then Y
				// [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
				for _, operand := range operands {
					switch operand.Type {
					case OPERAND_REGISTER:
						if form.Implied {
							if operand.Register != 0 {
								errs = append(
									errs,
									&InvalidRegisterError{operand.Token.Position},
								)
							}

							continue
						}

						if registers == 0 {
							scratch |= encoding.Compose(0, operand.Register, 0, 0)
						} else {
							scratch |= encoding.Compose(0, 0, operand.Register, 0)
						}

						registers++

					case OPERAND_LITERAL:
						literal, err := parseLiteral(operand.Token, form.Bits)

						if err != nil {
							errs = append(errs, err)
						}

						scratch |= literal

					case OPERAND_LABEL:
						labelRefs = append(
							labelRefs,
							LabelRef{
								operand.Token.Value,
								uint16(program),
								form.Bits,
								operand.Token.Position,
							},
						)
					}
				}
			}

			if !emit(uint8(scratch>>8), uint8(scratch)) {
				return nil, errs
			}

			emitted = true
		}

		if symtable != nil && emitted {
			symtable.Symbols[start] = cursor.LineByte
		}

		advance(line)
	}

	// Label
	// - Validate and resolve label references
	// - Add labels to symbol table
	for _, ref := range labelRefs {
		addr, exists := labels[ref.Label]

		if !exists {
			errs = append(errs, &UnknownLabelError{ref.Position, ref.Label})
			continue
		}

		limit := uint32(1) << ref.Bits

		if uint32(addr) >= limit {
			errs = append(
				errs, &OversizedLiteralError{ref.Position, limit - 1, addr},
			)

			continue
		}

		scratch := uint16(memory[ref.Addr])<<8 | uint16(memory[ref.Addr+1])
		scratch |= addr

		memory[ref.Addr] = uint8(scratch >> 8)
		memory[ref.Addr+1] = uint8(scratch)
	}

	if symtable != nil {
		for label, addr := range labels {
			symtable.Labels[addr] = label
		}
	}

	result = make([]byte, end-uint32(machine.MEMSPACE_PROGRAM))
	copy(result, memory[machine.MEMSPACE_PROGRAM:end])

	return
}
