// Package graph provides a small sequential graph executor for pipeline
// workflows. A Graph declares a closed set of named nodes and an entry
// point; each node receives the shared per-run state and returns either a
// transition to the next node or a terminal Step carrying the final value.
//
// Basic usage:
//
//	g := graph.New()
//	g.AddNode("greet", "Builds the greeting", func(ctx context.Context, state any) (graph.Step, error) {
//		s := state.(*myState)
//		s.Greeting = "hello"
//		return graph.Continue("finish"), nil
//	})
//	g.AddNode("finish", "Terminates the run", func(ctx context.Context, state any) (graph.Step, error) {
//		return graph.Done(state.(*myState).Greeting), nil
//	})
//	g.SetEntryPoint("greet")
//
//	runnable, err := g.Compile()
//	if err != nil {
//		// entry point missing or not declared
//	}
//	result, err := runnable.Invoke(ctx, &myState{})
//
// Nodes run strictly one after another; there is no parallel execution
// within a run. The executor records every executed node in the result's
// History, ending with the END marker, and stops on the first node error,
// wrapping it in *ExecutionError.
package graph
