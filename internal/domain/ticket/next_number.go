package ticket

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberPrefix "2025-" para o ano informado.
func NumberPrefix(year int) string {
	return fmt.Sprintf("%d-", year)
}

// NextNumber devolve "YYYY-NNNN": maior sequência do ano + 1.
// Números fora do padrão são ignorados.
func NextNumber(year int, existing []string) string {
	prefix := NumberPrefix(year)

	highest := 0
	for _, n := range existing {
		seq, ok := strings.CutPrefix(strings.TrimSpace(n), prefix)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(seq)
		if err != nil || v < 0 {
			continue
		}
		if v > highest {
			highest = v
		}
	}

	return fmt.Sprintf("%s%04d", prefix, highest+1)
}
