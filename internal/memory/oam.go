package memory

// OAM is the PPU's 256-byte sprite attribute memory. Power-on state is
// unreliable on real hardware; this core follows the common convention of
// filling it with $FF, which keeps garbage sprites off-screen (Y=$FF) until
// a game writes real data.
type OAM struct {
	data [256]uint8
	addr uint8
}

func NewOAM() *OAM {
	o := &OAM{}
	for i := range o.data {
		o.data[i] = 0xFF
	}
	return o
}

// SetAddress loads OAMADDR ($2003).
func (o *OAM) SetAddress(addr uint8) {
	o.addr = addr
}

// Address returns the current OAMADDR value.
func (o *OAM) Address() uint8 {
	return o.addr
}

// ReadData reads OAMDATA ($2004) without advancing the address.
func (o *OAM) ReadData() uint8 {
	return o.data[o.addr]
}

// WriteData writes OAMDATA ($2004) and auto-increments the address, as the
// real PPU does on CPU-initiated writes.
func (o *OAM) WriteData(value uint8) {
	o.data[o.addr] = value
	o.addr++
}

// DMAWrite loads all 256 bytes via the DMA engine, starting at the current
// OAMADDR and wrapping around it exactly like 256 back-to-back WriteData
// calls would.
func (o *OAM) DMAWrite(data *[256]uint8) {
	for _, b := range data {
		o.data[o.addr] = b
		o.addr++
	}
}

// Bytes exposes the raw 256-byte table for sprite evaluation.
func (o *OAM) Bytes() *[256]uint8 {
	return &o.data
}
