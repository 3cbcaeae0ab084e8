package monitor

import (
	"sort"

	"github.com/TomGlanzman/Perp/internal/models"
)

// NodeUsage counts currently-running tasks per execution host.
type NodeUsage struct {
	counts  map[string]int
	running int
}

// TallyNodes walks summary-mode rows once and tallies tasks whose current
// status is exactly running, keyed by hostname. A row with no recorded
// host buckets under "unknown" rather than being dropped.
func TallyNodes(rows []models.TaskRow) *NodeUsage {
	u := &NodeUsage{counts: make(map[string]int)}
	for _, row := range rows {
		if row.Status != string(models.TsRunning) {
			continue
		}
		host := "unknown"
		if row.Hostname.Valid {
			host = row.Hostname.String
		}
		u.counts[host]++
		u.running++
	}
	return u
}

// Hosts returns the active host names in sorted order.
func (u *NodeUsage) Hosts() []string {
	hosts := make([]string, 0, len(u.counts))
	for host := range u.counts {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

// Count returns the number of running tasks on one host.
func (u *NodeUsage) Count(host string) int { return u.counts[host] }

// Running returns the total number of running tasks.
func (u *NodeUsage) Running() int { return u.running }

// ActiveHosts returns the number of distinct hosts with running tasks.
func (u *NodeUsage) ActiveHosts() int { return len(u.counts) }
