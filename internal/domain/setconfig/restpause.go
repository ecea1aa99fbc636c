package setconfig

import "fmt"

// DefaultPauseSeconds is the pause before each cluster when unset.
const DefaultPauseSeconds = 20.0

// RestPause performs, per round, a main set followed by pauses.min short
// clusters after brief pauses.
type RestPause struct {
	common
	counts        Range
	pauses        Range
	clusterCounts Range
	pauseSeconds  *float64
}

// Type returns TypeRestPause.
func (r *RestPause) Type() Type { return TypeRestPause }

// Counts returns the main-set rep range.
func (r *RestPause) Counts() Range { return r.counts.Clone() }

// Pauses returns the number of clusters per round.
func (r *RestPause) Pauses() Range { return r.pauses.Clone() }

// ClusterCounts returns the per-cluster rep range.
func (r *RestPause) ClusterCounts() Range { return r.clusterCounts.Clone() }

// PauseSeconds returns the pause before each cluster, applying the default.
func (r *RestPause) PauseSeconds() float64 {
	if r.pauseSeconds != nil {
		return *r.pauseSeconds
	}
	return DefaultPauseSeconds
}

// Summary renders e.g. "8 reps + 2 rest-pause clusters of 3".
func (r *RestPause) Summary() string {
	return fmt.Sprintf("%s reps + %s rest-pause %s of %s",
		r.counts, formatNumber(r.pauses.Min),
		plural(r.pauses.Min, "cluster", "clusters"), r.clusterCounts)
}

// ToData returns the plain serializable shape.
func (r *RestPause) ToData() Data {
	d := r.data(TypeRestPause)
	d.Counts = cloneRange(&r.counts)
	d.Pauses = cloneRange(&r.pauses)
	d.ClusterCounts = cloneRange(&r.clusterCounts)
	d.PauseSeconds = cloneFloat(r.pauseSeconds)
	return d
}

// Clone returns a deep copy.
func (r *RestPause) Clone() SetConfiguration {
	return &RestPause{
		common:        r.common.clone(),
		counts:        r.counts.Clone(),
		pauses:        r.pauses.Clone(),
		clusterCounts: r.clusterCounts.Clone(),
		pauseSeconds:  cloneFloat(r.pauseSeconds),
	}
}

func (r *RestPause) plan() []step {
	rounds, clusters := count(r.sets), count(r.pauses)
	pause := r.PauseSeconds()
	steps := make([]step, 0, rounds*(1+clusters))
	for i := 0; i < rounds; i++ {
		steps = append(steps, step{target: r.counts.Min, kind: KindMain, rpe: r.rpeLow(), charged: true})
		for c := 0; c < clusters; c++ {
			steps = append(steps, step{
				target:     r.clusterCounts.Min,
				kind:       KindCluster,
				rpe:        r.rpeHigh(),
				charged:    true,
				restBefore: pause,
			})
		}
	}
	return steps
}
