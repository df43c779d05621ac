package ui

import "time"

const infoTTL = 5 * time.Second

// setInfo shows message in the trailer until infoTTL passes or another
// action replaces it.
func (m *Model) setInfo(message string) {
	m.infoMsg, m.infoExpire = message, time.Now().Add(infoTTL)
}

func (m *Model) forceClearInfo() {
	m.infoMsg, m.infoExpire = "", time.Time{}
}

// currentInfo returns the live notice, dropping it once expired.
func (m *Model) currentInfo() string {
	if m.infoExpire.IsZero() || time.Now().Before(m.infoExpire) {
		return m.infoMsg
	}
	m.forceClearInfo()
	return ""
}
