package metrics

const (
	LoopFramesH          = "The total number of loop frames processed"
	LoopFramesN          = "steptime_loop_frames"
	LoopTicksH           = "The total number of fixed steps executed"
	LoopTicksN           = "steptime_loop_ticks"
	LoopCatchUpFramesH   = "The total number of frames that executed more than one fixed step"
	LoopCatchUpFramesN   = "steptime_loop_catchup_frames"
	LoopClampedFramesH   = "The total number of frames whose elapsed time was clamped to the maximum frame delta"
	LoopClampedFramesN   = "steptime_loop_clamped_frames"
	LoopRemainderMicroH  = "The unconsumed accumulator remainder after the last drain, in microseconds"
	LoopRemainderMicroN  = "steptime_loop_remainder_micro"
	LoopFrameDeltaMicroH = "The elapsed time between consecutive loop frames, in microseconds"
	LoopFrameDeltaMicroN = "steptime_loop_frame_delta_micro"
)
