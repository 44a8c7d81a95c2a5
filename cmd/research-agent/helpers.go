package main

import "time"

// timeRounding trims timing output to a readable precision.
const timeRounding = time.Millisecond
