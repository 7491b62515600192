//go:build nomidi

package ostinato

func (v *View) getMIDISystemInfo(systemInfo *SystemInfo) {}
