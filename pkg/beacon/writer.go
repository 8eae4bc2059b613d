package beacon

import (
	"sync"
)

type (
	//writer gathers analyzed results into a private result list behind
	//the analysis fan-out. Each analyzer worker owns a disjoint
	//timeline, so the only shared state is the append below.
	writer struct {
		writeChannel chan *DetailedResult // holds analyzed results
		writeWg      sync.WaitGroup       // wait for writing to finish
		mutex        sync.Mutex           // guards results
		results      []*DetailedResult
	}
)

//newWriter creates a new writer for collecting analysis results
func newWriter() *writer {
	return &writer{
		writeChannel: make(chan *DetailedResult),
	}
}

//collect gathers an analyzed result to be stored
func (w *writer) collect(result *DetailedResult) {
	w.writeChannel <- result
}

//close waits for the writer to finish
func (w *writer) close() {
	close(w.writeChannel)
	w.writeWg.Wait()
}

//start kicks off a new writer thread
func (w *writer) start() {
	w.writeWg.Add(1)
	go func() {
		for result := range w.writeChannel {
			w.mutex.Lock()
			w.results = append(w.results, result)
			w.mutex.Unlock()
		}
		w.writeWg.Done()
	}()
}
