package generator

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a 3D printing profile generator that replies with compact JSON only."

func buildUserMessage(in Input) string {
	return fmt.Sprintf(
		"Create 3D printing filament profile JSON with keys: %s. "+
			"Filament name: %s. Suggested nozzle temp: %d. Bed temp: %d. "+
			"Cooling level: %s (low/medium/high). "+
			"Return ONLY JSON, no prose. Keep values realistic for FDM.",
		strings.Join(presetKeys, ", "), in.MaterialName, in.NozzleHint, in.BedHint, in.Cooling,
	)
}
