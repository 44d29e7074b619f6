// Package magnet implements the closed-form on-axis flux density model
// for opposed cylindrical permanent magnets.
//
// The model treats each magnet as a pair of face poles and superposes
// the contributions of both magnets about the gap midpoint:
//
//	B(d,p) = (Br/2)·[f(d+p) + f(d-p)]
//
// where f is the single-cylinder on-axis pole term. Geometry inputs are
// in millimeters and remanence in Tesla; results are in Tesla.
//
// Only [Cylinder] has an implemented formula. [Block] and [Ring] are
// recognized by the shape parser but evaluate to NaN.
package magnet
