package player

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kinogram/kino/log"
)

const staleDialTimeout = 200 * time.Millisecond

// PruneSockets removes the sockets in dir that no player answers on anymore.
// Sockets of players that are still running are kept.
func PruneSockets(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	var removed int
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".sock") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if conn, err := net.DialTimeout("unix", path, staleDialTimeout); err == nil {
			_ = conn.Close()
			continue
		}

		if err := os.Remove(path); err != nil {
			return removed, err
		}
		log.Debugf("player: removed stale socket %s", path)
		removed++
	}
	return removed, nil
}
