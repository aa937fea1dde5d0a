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

const (
	TOKEN_NONE TokenType = iota
	TOKEN_IDENT
	TOKEN_DIRECTIVE
	TOKEN_LITERAL
)

const (
	LITERAL_NIBBLE LiteralType = 4
	LITERAL_BYTE   LiteralType = 8
	LITERAL_ADDR   LiteralType = 12
	LITERAL_WORD   LiteralType = 16
)

const (
	OPERAND_NONE OperandType = iota
	OPERAND_REGISTER
	OPERAND_VALUE
	OPERAND_LITERAL
	OPERAND_LABEL
	OPERAND_I
	OPERAND_INDIRECT
	OPERAND_DT
	OPERAND_ST
	OPERAND_K
	OPERAND_F
	OPERAND_B
)

const (
	INSTRUCTION_INVALID InstructionType = iota
	INSTRUCTION_CLS
	INSTRUCTION_RET
	INSTRUCTION_JP
	INSTRUCTION_CALL
	INSTRUCTION_SE
	INSTRUCTION_SNE
	INSTRUCTION_LD
	INSTRUCTION_ADD
	INSTRUCTION_OR
	INSTRUCTION_AND
	INSTRUCTION_XOR
	INSTRUCTION_SUB
	INSTRUCTION_SHR
	INSTRUCTION_SUBN
	INSTRUCTION_SHL
	INSTRUCTION_RND
	INSTRUCTION_DRW
	INSTRUCTION_SKP
	INSTRUCTION_SKNP
)

const (
	DIRECTIVE_INVALID DirectiveType = iota
	DIRECTIVE_ORIG
	DIRECTIVE_DB
	DIRECTIVE_DW
	DIRECTIVE_BLKB
	DIRECTIVE_END
)

var instructionNames = map[string]InstructionType{
	"CLS":  INSTRUCTION_CLS,
	"RET":  INSTRUCTION_RET,
	"JP":   INSTRUCTION_JP,
	"CALL": INSTRUCTION_CALL,
	"SE":   INSTRUCTION_SE,
	"SNE":  INSTRUCTION_SNE,
	"LD":   INSTRUCTION_LD,
	"ADD":  INSTRUCTION_ADD,
	"OR":   INSTRUCTION_OR,
	"AND":  INSTRUCTION_AND,
	"XOR":  INSTRUCTION_XOR,
	"SUB":  INSTRUCTION_SUB,
	"SHR":  INSTRUCTION_SHR,
	"SUBN": INSTRUCTION_SUBN,
	"SHL":  INSTRUCTION_SHL,
	"RND":  INSTRUCTION_RND,
	"DRW":  INSTRUCTION_DRW,
	"SKP":  INSTRUCTION_SKP,
	"SKNP": INSTRUCTION_SKNP,
}

var directiveNames = map[string]DirectiveType{
	".ORIG": DIRECTIVE_ORIG,
	".DB":   DIRECTIVE_DB,
	".DW":   DIRECTIVE_DW,
	".BLKB": DIRECTIVE_BLKB,
	".END":  DIRECTIVE_END,
}

var operandNames = map[OperandType]string{
	OPERAND_REGISTER: "Register",
	OPERAND_VALUE:    "Literal or Label",
	OPERAND_LITERAL:  "Literal",
	OPERAND_LABEL:    "Label",
	OPERAND_I:        "I",
	OPERAND_INDIRECT: "[I]",
	OPERAND_DT:       "DT",
	OPERAND_ST:       "ST",
	OPERAND_K:        "K",
	OPERAND_F:        "F",
	OPERAND_B:        "B",
}
