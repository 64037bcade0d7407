// Package kinematics turns a stream of body, hand and face keypoints into a
// fixed-schema motion-quality feature vector.
//
// Responsibilities: joint geometry, per-channel sample histories and their
// statistics, per-frame channel extraction, the Idle/Recording session state
// machine, and assembly of the bilateral (left vs right) feature vector.
// Key types: Frame, ChannelHistory, FrameProcessor, SessionController,
// FeatureVector.
//
// Landmark detection is external: callers deliver frames through
// SessionController.SubmitFrame. Nothing here persists, renders or talks to
// the network, and no operation returns an error. Missing detections,
// degenerate geometry and empty histories all collapse to zero values.
package kinematics
