// Package task describes a list of tasks whose parameters are value trees.
//
// A task carries base params and optional variants. Each variant has a
// condition and params that are merged over the base when the condition
// holds:
//
//	{
//	  "tasks": [{
//	    "name": "Fight",
//	    "type": "Fight",
//	    "params": {"stage": {"alternatives": ["1-7", "CE-6"], "default_index": 1}},
//	    "variants": [{
//	      "condition": {"type": "Weekday", "weekdays": ["Sat", "Sun"]},
//	      "params": {"stage": "CE-6"}
//	    }]
//	  }]
//	}
//
// Config.Resolve picks variants for a point in time, merges them and resolves
// the pending inputs left in the result.
package task
