// Package tracker implements Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/samuelfneumann/wirefit/timestep"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

// LoadData loads and returns the data saved by a Return Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}
	return data, nil
}

// episodeReturn accumulates the return of the current episode from
// sequential timesteps
type episodeReturn struct {
	lastTimeStep  int
	currentReturn float64
}

func newEpisodeReturn() episodeReturn {
	return episodeReturn{lastTimeStep: -1}
}

// add adds the reward of step to the current return. If step ends the
// episode, the return and the episode length are returned with done set
// to true, and accumulation restarts. add panics if it is called for
// non-sequential timesteps.
func (e *episodeReturn) add(step ts.TimeStep) (ret float64, steps int,
	done bool) {
	if e.lastTimeStep+1 != step.Number {
		panic(fmt.Sprintf("track: last two timesteps tracked are not "+
			"sequential: timestep %v --> timestep %v were tracked",
			e.lastTimeStep, step.Number))
	}

	e.currentReturn += step.Reward
	if !step.Last() {
		e.lastTimeStep = step.Number
		return 0, 0, false
	}

	ret = e.currentReturn
	e.currentReturn = 0
	e.lastTimeStep = -1
	return ret, step.Number, true
}
