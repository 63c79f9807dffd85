// Package trace generates randomized allocate/resize/free/write workloads
// and replays them against an alloc.Heap, checking that every live
// allocation's payload bytes survive exactly as written and that no two
// live allocations ever alias the same memory.
package trace
