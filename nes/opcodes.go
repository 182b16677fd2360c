package nes

// buildInstructionTable returns the 256-entry opcode dispatch table. Unofficial
// opcodes are left as two-cycle NOPs; nothing in the catalog relies on them.
func (c *CPU) buildInstructionTable() []instruction {
	return []instruction{
		{"BRK", implied, c.brk, 1, 7, false},        // 0x00
		{"ORA", indirectX, c.ora, 2, 6, false},      // 0x01
		{"", implied, c.nop, 1, 2, false},           // 0x02
		{"", implied, c.nop, 1, 2, false},           // 0x03
		{"", implied, c.nop, 1, 2, false},           // 0x04
		{"ORA", zeropage, c.ora, 2, 3, false},       // 0x05
		{"ASL", zeropage, c.asl, 2, 5, false},       // 0x06
		{"", implied, c.nop, 1, 2, false},           // 0x07
		{"PHP", implied, c.php, 1, 3, false},        // 0x08
		{"ORA", immediate, c.ora, 2, 2, false},      // 0x09
		{"ASL", accumulator, c.asl, 1, 2, false},    // 0x0A
		{"", implied, c.nop, 1, 2, false},           // 0x0B
		{"", implied, c.nop, 1, 2, false},           // 0x0C
		{"ORA", absolute, c.ora, 3, 4, false},       // 0x0D
		{"ASL", absolute, c.asl, 3, 6, false},       // 0x0E
		{"", implied, c.nop, 1, 2, false},           // 0x0F
		{"BPL", relative, c.bpl, 2, 2, false},       // 0x10
		{"ORA", indirectY, c.ora, 2, 5, true},       // 0x11
		{"", implied, c.nop, 1, 2, false},           // 0x12
		{"", implied, c.nop, 1, 2, false},           // 0x13
		{"", implied, c.nop, 1, 2, false},           // 0x14
		{"ORA", zeropageX, c.ora, 2, 4, false},      // 0x15
		{"ASL", zeropageX, c.asl, 2, 6, false},      // 0x16
		{"", implied, c.nop, 1, 2, false},           // 0x17
		{"CLC", implied, c.clc, 1, 2, false},        // 0x18
		{"ORA", absoluteY, c.ora, 3, 4, true},       // 0x19
		{"", implied, c.nop, 1, 2, false},           // 0x1A
		{"", implied, c.nop, 1, 2, false},           // 0x1B
		{"", implied, c.nop, 1, 2, false},           // 0x1C
		{"ORA", absoluteX, c.ora, 3, 4, true},       // 0x1D
		{"ASL", absoluteX, c.asl, 3, 7, false},      // 0x1E
		{"", implied, c.nop, 1, 2, false},           // 0x1F
		{"JSR", absolute, c.jsr, 3, 6, false},       // 0x20
		{"AND", indirectX, c.and, 2, 6, false},      // 0x21
		{"", implied, c.nop, 1, 2, false},           // 0x22
		{"", implied, c.nop, 1, 2, false},           // 0x23
		{"BIT", zeropage, c.bit, 2, 3, false},       // 0x24
		{"AND", zeropage, c.and, 2, 3, false},       // 0x25
		{"ROL", zeropage, c.rol, 2, 5, false},       // 0x26
		{"", implied, c.nop, 1, 2, false},           // 0x27
		{"PLP", implied, c.plp, 1, 4, false},        // 0x28
		{"AND", immediate, c.and, 2, 2, false},      // 0x29
		{"ROL", accumulator, c.rol, 1, 2, false},    // 0x2A
		{"", implied, c.nop, 1, 2, false},           // 0x2B
		{"BIT", absolute, c.bit, 3, 4, false},       // 0x2C
		{"AND", absolute, c.and, 3, 4, false},       // 0x2D
		{"ROL", absolute, c.rol, 3, 6, false},       // 0x2E
		{"", implied, c.nop, 1, 2, false},           // 0x2F
		{"BMI", relative, c.bmi, 2, 2, false},       // 0x30
		{"AND", indirectY, c.and, 2, 5, true},       // 0x31
		{"", implied, c.nop, 1, 2, false},           // 0x32
		{"", implied, c.nop, 1, 2, false},           // 0x33
		{"", implied, c.nop, 1, 2, false},           // 0x34
		{"AND", zeropageX, c.and, 2, 4, false},      // 0x35
		{"ROL", zeropageX, c.rol, 2, 6, false},      // 0x36
		{"", implied, c.nop, 1, 2, false},           // 0x37
		{"SEC", implied, c.sec, 1, 2, false},        // 0x38
		{"AND", absoluteY, c.and, 3, 4, true},       // 0x39
		{"", implied, c.nop, 1, 2, false},           // 0x3A
		{"", implied, c.nop, 1, 2, false},           // 0x3B
		{"", implied, c.nop, 1, 2, false},           // 0x3C
		{"AND", absoluteX, c.and, 3, 4, true},       // 0x3D
		{"ROL", absoluteX, c.rol, 3, 7, false},      // 0x3E
		{"", implied, c.nop, 1, 2, false},           // 0x3F
		{"RTI", implied, c.rti, 1, 6, false},        // 0x40
		{"EOR", indirectX, c.eor, 2, 6, false},      // 0x41
		{"", implied, c.nop, 1, 2, false},           // 0x42
		{"", implied, c.nop, 1, 2, false},           // 0x43
		{"", implied, c.nop, 1, 2, false},           // 0x44
		{"EOR", zeropage, c.eor, 2, 3, false},       // 0x45
		{"LSR", zeropage, c.lsr, 2, 5, false},       // 0x46
		{"", implied, c.nop, 1, 2, false},           // 0x47
		{"PHA", implied, c.pha, 1, 3, false},        // 0x48
		{"EOR", immediate, c.eor, 2, 2, false},      // 0x49
		{"LSR", accumulator, c.lsr, 1, 2, false},    // 0x4A
		{"", implied, c.nop, 1, 2, false},           // 0x4B
		{"JMP", absolute, c.jmp, 3, 3, false},       // 0x4C
		{"EOR", absolute, c.eor, 3, 4, false},       // 0x4D
		{"LSR", absolute, c.lsr, 3, 6, false},       // 0x4E
		{"", implied, c.nop, 1, 2, false},           // 0x4F
		{"BVC", relative, c.bvc, 2, 2, false},       // 0x50
		{"EOR", indirectY, c.eor, 2, 5, true},       // 0x51
		{"", implied, c.nop, 1, 2, false},           // 0x52
		{"", implied, c.nop, 1, 2, false},           // 0x53
		{"", implied, c.nop, 1, 2, false},           // 0x54
		{"EOR", zeropageX, c.eor, 2, 4, false},      // 0x55
		{"LSR", zeropageX, c.lsr, 2, 6, false},      // 0x56
		{"", implied, c.nop, 1, 2, false},           // 0x57
		{"CLI", implied, c.cli, 1, 2, false},        // 0x58
		{"EOR", absoluteY, c.eor, 3, 4, true},       // 0x59
		{"", implied, c.nop, 1, 2, false},           // 0x5A
		{"", implied, c.nop, 1, 2, false},           // 0x5B
		{"", implied, c.nop, 1, 2, false},           // 0x5C
		{"EOR", absoluteX, c.eor, 3, 4, true},       // 0x5D
		{"LSR", absoluteX, c.lsr, 3, 7, false},      // 0x5E
		{"", implied, c.nop, 1, 2, false},           // 0x5F
		{"RTS", implied, c.rts, 1, 6, false},        // 0x60
		{"ADC", indirectX, c.adc, 2, 6, false},      // 0x61
		{"", implied, c.nop, 1, 2, false},           // 0x62
		{"", implied, c.nop, 1, 2, false},           // 0x63
		{"", implied, c.nop, 1, 2, false},           // 0x64
		{"ADC", zeropage, c.adc, 2, 3, false},       // 0x65
		{"ROR", zeropage, c.ror, 2, 5, false},       // 0x66
		{"", implied, c.nop, 1, 2, false},           // 0x67
		{"PLA", implied, c.pla, 1, 4, false},        // 0x68
		{"ADC", immediate, c.adc, 2, 2, false},      // 0x69
		{"ROR", accumulator, c.ror, 1, 2, false},    // 0x6A
		{"", implied, c.nop, 1, 2, false},           // 0x6B
		{"JMP", indirect, c.jmp, 3, 5, false},       // 0x6C
		{"ADC", absolute, c.adc, 3, 4, false},       // 0x6D
		{"ROR", absolute, c.ror, 3, 6, false},       // 0x6E
		{"", implied, c.nop, 1, 2, false},           // 0x6F
		{"BVS", relative, c.bvs, 2, 2, false},       // 0x70
		{"ADC", indirectY, c.adc, 2, 5, true},       // 0x71
		{"", implied, c.nop, 1, 2, false},           // 0x72
		{"", implied, c.nop, 1, 2, false},           // 0x73
		{"", implied, c.nop, 1, 2, false},           // 0x74
		{"ADC", zeropageX, c.adc, 2, 4, false},      // 0x75
		{"ROR", zeropageX, c.ror, 2, 6, false},      // 0x76
		{"", implied, c.nop, 1, 2, false},           // 0x77
		{"SEI", implied, c.sei, 1, 2, false},        // 0x78
		{"ADC", absoluteY, c.adc, 3, 4, true},       // 0x79
		{"", implied, c.nop, 1, 2, false},           // 0x7A
		{"", implied, c.nop, 1, 2, false},           // 0x7B
		{"", implied, c.nop, 1, 2, false},           // 0x7C
		{"ADC", absoluteX, c.adc, 3, 4, true},       // 0x7D
		{"ROR", absoluteX, c.ror, 3, 7, false},      // 0x7E
		{"", implied, c.nop, 1, 2, false},           // 0x7F
		{"", implied, c.nop, 1, 2, false},           // 0x80
		{"STA", indirectX, c.sta, 2, 6, false},      // 0x81
		{"", implied, c.nop, 1, 2, false},           // 0x82
		{"", implied, c.nop, 1, 2, false},           // 0x83
		{"STY", zeropage, c.sty, 2, 3, false},       // 0x84
		{"STA", zeropage, c.sta, 2, 3, false},       // 0x85
		{"STX", zeropage, c.stx, 2, 3, false},       // 0x86
		{"", implied, c.nop, 1, 2, false},           // 0x87
		{"DEY", implied, c.dey, 1, 2, false},        // 0x88
		{"", implied, c.nop, 1, 2, false},           // 0x89
		{"TXA", implied, c.txa, 1, 2, false},        // 0x8A
		{"", implied, c.nop, 1, 2, false},           // 0x8B
		{"STY", absolute, c.sty, 3, 4, false},       // 0x8C
		{"STA", absolute, c.sta, 3, 4, false},       // 0x8D
		{"STX", absolute, c.stx, 3, 4, false},       // 0x8E
		{"", implied, c.nop, 1, 2, false},           // 0x8F
		{"BCC", relative, c.bcc, 2, 2, false},       // 0x90
		{"STA", indirectY, c.sta, 2, 6, false},      // 0x91
		{"", implied, c.nop, 1, 2, false},           // 0x92
		{"", implied, c.nop, 1, 2, false},           // 0x93
		{"STY", zeropageX, c.sty, 2, 4, false},      // 0x94
		{"STA", zeropageX, c.sta, 2, 4, false},      // 0x95
		{"STX", zeropageY, c.stx, 2, 4, false},      // 0x96
		{"", implied, c.nop, 1, 2, false},           // 0x97
		{"TYA", implied, c.tya, 1, 2, false},        // 0x98
		{"STA", absoluteY, c.sta, 3, 5, false},      // 0x99
		{"TXS", implied, c.txs, 1, 2, false},        // 0x9A
		{"", implied, c.nop, 1, 2, false},           // 0x9B
		{"", implied, c.nop, 1, 2, false},           // 0x9C
		{"STA", absoluteX, c.sta, 3, 5, false},      // 0x9D
		{"", implied, c.nop, 1, 2, false},           // 0x9E
		{"", implied, c.nop, 1, 2, false},           // 0x9F
		{"LDY", immediate, c.ldy, 2, 2, false},      // 0xA0
		{"LDA", indirectX, c.lda, 2, 6, false},      // 0xA1
		{"LDX", immediate, c.ldx, 2, 2, false},      // 0xA2
		{"", implied, c.nop, 1, 2, false},           // 0xA3
		{"LDY", zeropage, c.ldy, 2, 3, false},       // 0xA4
		{"LDA", zeropage, c.lda, 2, 3, false},       // 0xA5
		{"LDX", zeropage, c.ldx, 2, 3, false},       // 0xA6
		{"", implied, c.nop, 1, 2, false},           // 0xA7
		{"TAY", implied, c.tay, 1, 2, false},        // 0xA8
		{"LDA", immediate, c.lda, 2, 2, false},      // 0xA9
		{"TAX", implied, c.tax, 1, 2, false},        // 0xAA
		{"", implied, c.nop, 1, 2, false},           // 0xAB
		{"LDY", absolute, c.ldy, 3, 4, false},       // 0xAC
		{"LDA", absolute, c.lda, 3, 4, false},       // 0xAD
		{"LDX", absolute, c.ldx, 3, 4, false},       // 0xAE
		{"", implied, c.nop, 1, 2, false},           // 0xAF
		{"BCS", relative, c.bcs, 2, 2, false},       // 0xB0
		{"LDA", indirectY, c.lda, 2, 5, true},       // 0xB1
		{"", implied, c.nop, 1, 2, false},           // 0xB2
		{"", implied, c.nop, 1, 2, false},           // 0xB3
		{"LDY", zeropageX, c.ldy, 2, 4, false},      // 0xB4
		{"LDA", zeropageX, c.lda, 2, 4, false},      // 0xB5
		{"LDX", zeropageY, c.ldx, 2, 4, false},      // 0xB6
		{"", implied, c.nop, 1, 2, false},           // 0xB7
		{"CLV", implied, c.clv, 1, 2, false},        // 0xB8
		{"LDA", absoluteY, c.lda, 3, 4, true},       // 0xB9
		{"TSX", implied, c.tsx, 1, 2, false},        // 0xBA
		{"", implied, c.nop, 1, 2, false},           // 0xBB
		{"LDY", absoluteX, c.ldy, 3, 4, true},       // 0xBC
		{"LDA", absoluteX, c.lda, 3, 4, true},       // 0xBD
		{"LDX", absoluteY, c.ldx, 3, 4, true},       // 0xBE
		{"", implied, c.nop, 1, 2, false},           // 0xBF
		{"CPY", immediate, c.cpy, 2, 2, false},      // 0xC0
		{"CMP", indirectX, c.cmp, 2, 6, false},      // 0xC1
		{"", implied, c.nop, 1, 2, false},           // 0xC2
		{"", implied, c.nop, 1, 2, false},           // 0xC3
		{"CPY", zeropage, c.cpy, 2, 3, false},       // 0xC4
		{"CMP", zeropage, c.cmp, 2, 3, false},       // 0xC5
		{"DEC", zeropage, c.dec, 2, 5, false},       // 0xC6
		{"", implied, c.nop, 1, 2, false},           // 0xC7
		{"INY", implied, c.iny, 1, 2, false},        // 0xC8
		{"CMP", immediate, c.cmp, 2, 2, false},      // 0xC9
		{"DEX", implied, c.dex, 1, 2, false},        // 0xCA
		{"", implied, c.nop, 1, 2, false},           // 0xCB
		{"CPY", absolute, c.cpy, 3, 4, false},       // 0xCC
		{"CMP", absolute, c.cmp, 3, 4, false},       // 0xCD
		{"DEC", absolute, c.dec, 3, 6, false},       // 0xCE
		{"", implied, c.nop, 1, 2, false},           // 0xCF
		{"BNE", relative, c.bne, 2, 2, false},       // 0xD0
		{"CMP", indirectY, c.cmp, 2, 5, true},       // 0xD1
		{"", implied, c.nop, 1, 2, false},           // 0xD2
		{"", implied, c.nop, 1, 2, false},           // 0xD3
		{"", implied, c.nop, 1, 2, false},           // 0xD4
		{"CMP", zeropageX, c.cmp, 2, 4, false},      // 0xD5
		{"DEC", zeropageX, c.dec, 2, 6, false},      // 0xD6
		{"", implied, c.nop, 1, 2, false},           // 0xD7
		{"CLD", implied, c.cld, 1, 2, false},        // 0xD8
		{"CMP", absoluteY, c.cmp, 3, 4, true},       // 0xD9
		{"", implied, c.nop, 1, 2, false},           // 0xDA
		{"", implied, c.nop, 1, 2, false},           // 0xDB
		{"", implied, c.nop, 1, 2, false},           // 0xDC
		{"CMP", absoluteX, c.cmp, 3, 4, true},       // 0xDD
		{"DEC", absoluteX, c.dec, 3, 7, false},      // 0xDE
		{"", implied, c.nop, 1, 2, false},           // 0xDF
		{"CPX", immediate, c.cpx, 2, 2, false},      // 0xE0
		{"SBC", indirectX, c.sbc, 2, 6, false},      // 0xE1
		{"", implied, c.nop, 1, 2, false},           // 0xE2
		{"", implied, c.nop, 1, 2, false},           // 0xE3
		{"CPX", zeropage, c.cpx, 2, 3, false},       // 0xE4
		{"SBC", zeropage, c.sbc, 2, 3, false},       // 0xE5
		{"INC", zeropage, c.inc, 2, 5, false},       // 0xE6
		{"", implied, c.nop, 1, 2, false},           // 0xE7
		{"INX", implied, c.inx, 1, 2, false},        // 0xE8
		{"SBC", immediate, c.sbc, 2, 2, false},      // 0xE9
		{"NOP", implied, c.nop, 1, 2, false},        // 0xEA
		{"", implied, c.nop, 1, 2, false},           // 0xEB
		{"CPX", absolute, c.cpx, 3, 4, false},       // 0xEC
		{"SBC", absolute, c.sbc, 3, 4, false},       // 0xED
		{"INC", absolute, c.inc, 3, 6, false},       // 0xEE
		{"", implied, c.nop, 1, 2, false},           // 0xEF
		{"BEQ", relative, c.beq, 2, 2, false},       // 0xF0
		{"SBC", indirectY, c.sbc, 2, 5, true},       // 0xF1
		{"", implied, c.nop, 1, 2, false},           // 0xF2
		{"", implied, c.nop, 1, 2, false},           // 0xF3
		{"", implied, c.nop, 1, 2, false},           // 0xF4
		{"SBC", zeropageX, c.sbc, 2, 4, false},      // 0xF5
		{"INC", zeropageX, c.inc, 2, 6, false},      // 0xF6
		{"", implied, c.nop, 1, 2, false},           // 0xF7
		{"SED", implied, c.sed, 1, 2, false},        // 0xF8
		{"SBC", absoluteY, c.sbc, 3, 4, true},       // 0xF9
		{"", implied, c.nop, 1, 2, false},           // 0xFA
		{"", implied, c.nop, 1, 2, false},           // 0xFB
		{"", implied, c.nop, 1, 2, false},           // 0xFC
		{"SBC", absoluteX, c.sbc, 3, 4, true},       // 0xFD
		{"INC", absoluteX, c.inc, 3, 7, false},      // 0xFE
		{"", implied, c.nop, 1, 2, false},           // 0xFF
	}
}
