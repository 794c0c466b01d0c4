package cpu

func (c *CPU) add8(a, b byte) (res byte, z, n, h, cy bool) {
	r := uint16(a) + uint16(b)
	res = byte(r)
	z = res == 0
	h = (a&0x0F)+(b&0x0F) > 0x0F
	cy = r > 0xFF
	return
}

func (c *CPU) adc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := uint16(a) + uint16(b) + uint16(ci)
	res = byte(r)
	z = res == 0
	h = (a&0x0F)+(b&0x0F)+ci > 0x0F
	cy = r > 0xFF
	return
}

func (c *CPU) sub8(a, b byte) (res byte, z, n, h, cy bool) {
	r := int16(a) - int16(b)
	res = byte(r)
	z = res == 0
	n = true
	h = (a & 0x0F) < (b & 0x0F)
	cy = int16(a) < int16(b)
	return
}

func (c *CPU) sbc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := int16(0)
	if carryIn {
		ci = 1
	}
	r := int16(a) - int16(b) - ci
	res = byte(r)
	z = res == 0
	n = true
	h = int16(a&0x0F) < int16(b&0x0F)+ci
	cy = int16(a) < int16(b)+ci
	return
}

func (c *CPU) and8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a & b
	z = res == 0
	h = true
	return
}

func (c *CPU) xor8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a ^ b
	z = res == 0
	return
}

func (c *CPU) or8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a | b
	z = res == 0
	return
}

func (c *CPU) cp8(a, b byte) (z, n, h, cy bool) {
	_, z, n, h, cy = c.sub8(a, b)
	return
}

// aluOp applies one of the eight ALU operations (selected the same way the
// opcode map selects them: ADD,ADC,SUB,SBC,AND,XOR,OR,CP) to A and operand,
// writing the result and flags except for CP which only sets flags.
func (c *CPU) aluOp(op byte, operand byte) {
	switch op & 0x07 {
	case 0: // ADD
		res, z, n, h, cy := c.add8(c.A, operand)
		c.A = res
		c.setFlags(z, n, h, cy)
	case 1: // ADC
		res, z, n, h, cy := c.adc8(c.A, operand, c.flag(flagC))
		c.A = res
		c.setFlags(z, n, h, cy)
	case 2: // SUB
		res, z, n, h, cy := c.sub8(c.A, operand)
		c.A = res
		c.setFlags(z, n, h, cy)
	case 3: // SBC
		res, z, n, h, cy := c.sbc8(c.A, operand, c.flag(flagC))
		c.A = res
		c.setFlags(z, n, h, cy)
	case 4: // AND
		res, z, n, h, cy := c.and8(c.A, operand)
		c.A = res
		c.setFlags(z, n, h, cy)
	case 5: // XOR
		res, z, n, h, cy := c.xor8(c.A, operand)
		c.A = res
		c.setFlags(z, n, h, cy)
	case 6: // OR
		res, z, n, h, cy := c.or8(c.A, operand)
		c.A = res
		c.setFlags(z, n, h, cy)
	case 7: // CP
		z, n, h, cy := c.cp8(c.A, operand)
		c.setFlags(z, n, h, cy)
	}
}

// daa implements the decimal-adjust-after-add algorithm: it corrects A to
// valid BCD after an ADD/ADC/SUB/SBC, using N to pick the correction
// direction and H/C to decide whether each nibble needs adjustment.
func (c *CPU) daa() {
	a := c.A
	cy := c.flag(flagC)
	if !c.flag(flagN) {
		if cy || a > 0x99 {
			a += 0x60
			cy = true
		}
		if c.flag(flagH) || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if c.flag(flagH) {
			a -= 0x06
		}
		if cy {
			a -= 0x60
		}
	}
	c.A = a
	c.setFlags(a == 0, c.flag(flagN), false, cy)
}
