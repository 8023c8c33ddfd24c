package detector

import (
	"errors"
	"image"
	"sort"

	"gocv.io/x/gocv"
)

// HSV skin thresholds. Two inclusive bands cover the hue wrap-around for
// skin tones near 0 and 180 degrees.
var (
	skinLower1 = gocv.NewScalar(0, 20, 70, 0)
	skinUpper1 = gocv.NewScalar(20, 255, 255, 0)
	skinLower2 = gocv.NewScalar(170, 20, 70, 0)
	skinUpper2 = gocv.NewScalar(180, 255, 255, 0)
)

// historyDepth is the temporal buffer capacity in frames.
const historyDepth = 6

// maxFingertips caps the fingertip candidates kept per hand.
const maxFingertips = 5

// Region is a closed hand-candidate boundary extracted from the mask.
type Region struct {
	Points []image.Point
	Area   float64
}

// HeuristicDetector recovers hands from skin-colored regions with no
// learned model: HSV segmentation, contour ranking, convex-hull fingertip
// clustering, and a leftmost/rightmost thumb-index role heuristic. It
// keeps a short rolling history of results for temporal smoothing; the
// history is store-only and never alters the returned hands.
type HeuristicDetector struct {
	config  Config
	history [][]HandInfo
}

// NewHeuristicDetector creates a heuristic detector with the given
// configuration. It requires no external resources.
func NewHeuristicDetector(config Config) *HeuristicDetector {
	if config.MaxHands <= 0 {
		config.MaxHands = DefaultConfig().MaxHands
	}
	if config.MinArea <= 0 {
		config.MinArea = DefaultConfig().MinArea
	}
	if config.TipSeparation <= 0 {
		config.TipSeparation = DefaultConfig().TipSeparation
	}
	return &HeuristicDetector{
		config:  config,
		history: make([][]HandInfo, 0, historyDepth),
	}
}

// Name returns the backend identifier.
func (d *HeuristicDetector) Name() string { return "heuristic" }

// Detect runs the full heuristic pipeline on one frame: segment skin
// regions, rank contours, estimate fingertips per candidate region, and
// assign thumb/index roles. An empty result is the normal no-hand state.
func (d *HeuristicDetector) Detect(frame *gocv.Mat) ([]HandInfo, error) {
	if frame == nil || frame.Empty() {
		return nil, errors.New("empty frame")
	}
	w, h := frame.Cols(), frame.Rows()

	mask := segment(frame)
	defer mask.Close()

	regions := selectRegions(&mask, d.config.MaxHands, d.config.MinArea)

	hands := make([]HandInfo, 0, len(regions))
	for _, region := range regions {
		hands = append(hands, d.estimate(region, w, h))
	}

	d.push(hands)
	return hands, nil
}

// Close releases detector resources. The heuristic backend holds none.
func (d *HeuristicDetector) Close() error { return nil }

// History returns the retained per-frame hand lists, oldest first. The
// window is maintained every Detect call but no smoothing is derived from
// it, preserving single-frame latency for consumers.
func (d *HeuristicDetector) History() [][]HandInfo {
	return d.history
}

// segment isolates skin-colored pixels and returns a cleaned binary mask
// of the same dimensions as frame. Closing fills small holes, opening
// removes specks, and a final blur softens the edges. Pure function of
// the frame and the fixed thresholds; the caller owns the returned Mat.
func segment(frame *gocv.Mat) gocv.Mat {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(*frame, &hsv, gocv.ColorBGRToHSV)

	m1 := gocv.NewMat()
	defer m1.Close()
	m2 := gocv.NewMat()
	defer m2.Close()
	gocv.InRangeWithScalar(hsv, skinLower1, skinUpper1, &m1)
	gocv.InRangeWithScalar(hsv, skinLower2, skinUpper2, &m2)

	mask := gocv.NewMat()
	gocv.BitwiseOr(m1, m2, &mask)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(5, 5))
	defer kernel.Close()
	gocv.MorphologyExWithParams(mask, &mask, gocv.MorphClose, kernel, 2, gocv.BorderConstant)
	gocv.MorphologyExWithParams(mask, &mask, gocv.MorphOpen, kernel, 1, gocv.BorderConstant)
	gocv.GaussianBlur(mask, &mask, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	return mask
}

// selectRegions extracts external contours from the mask and returns up
// to maxHands candidates ranked by area descending. Blobs below minArea
// are discarded as noise.
func selectRegions(mask *gocv.Mat, maxHands int, minArea float64) []Region {
	contours := gocv.FindContours(*mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	regions := make([]Region, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		pv := contours.At(i)
		regions = append(regions, Region{
			Points: pv.ToPoints(),
			Area:   gocv.ContourArea(pv),
		})
	}

	sort.Slice(regions, func(i, j int) bool { return regions[i].Area > regions[j].Area })

	if len(regions) > maxHands {
		regions = regions[:maxHands]
	}
	kept := regions[:0]
	for _, r := range regions {
		if r.Area >= minArea {
			kept = append(kept, r)
		}
	}
	return kept
}

// estimate computes one HandInfo from a candidate region: centroid,
// convex-hull fingertip candidates, and thumb/index role assignment.
func (d *HeuristicDetector) estimate(region Region, w, h int) HandInfo {
	info := HandInfo{
		Detected: true,
		Center:   regionCentroid(region, w, h),
	}

	hull := convexHull(region.Points)
	sort.SliceStable(hull, func(i, j int) bool { return hull[i].Y < hull[j].Y })

	// Walk the hull top to bottom, keeping a point only when it is far
	// enough from every accepted candidate. Hull vertices cluster near
	// true fingertips but also catch knuckle bulges and segmentation
	// noise; the spacing requirement dedupes those clusters.
	tips := make([]image.Point, 0, maxFingertips)
	for _, p := range hull {
		if len(tips) >= maxFingertips {
			break
		}
		if separated(p, tips, d.config.TipSeparation) {
			tips = append(tips, p)
		}
	}
	info.Fingertips = tips

	assignRoles(&info)
	return info
}

// assignRoles picks thumb and index tips from the topmost fingertip
// candidates: among the top three, thumb is the leftmost and index the
// rightmost. With fewer than two candidates both stay unset and the
// distance is zero. The heuristic assumes a roughly upright,
// fingers-spread pose and degrades under rotation or occlusion.
func assignRoles(info *HandInfo) {
	if len(info.Fingertips) < 2 {
		return
	}

	top := len(info.Fingertips)
	if top > 3 {
		top = 3
	}
	topk := make([]image.Point, top)
	copy(topk, info.Fingertips[:top])
	sort.Slice(topk, func(i, j int) bool { return topk[i].X < topk[j].X })

	thumb := topk[0]
	index := topk[top-1]
	info.ThumbTip = &thumb
	info.IndexTip = &index
	info.DistanceIndexThumb = Dist(index, thumb)
}

// regionCentroid computes the boundary's centroid from its area moments.
// A degenerate region with zero area falls back to the frame center.
func regionCentroid(region Region, w, h int) image.Point {
	pts := region.Points
	if len(pts) < 3 {
		return image.Pt(w/2, h/2)
	}

	var area, cx, cy float64
	for i := range pts {
		j := (i + 1) % len(pts)
		cross := float64(pts[i].X)*float64(pts[j].Y) - float64(pts[j].X)*float64(pts[i].Y)
		area += cross
		cx += (float64(pts[i].X) + float64(pts[j].X)) * cross
		cy += (float64(pts[i].Y) + float64(pts[j].Y)) * cross
	}
	if area == 0 {
		return image.Pt(w/2, h/2)
	}
	area /= 2
	return image.Pt(int(cx/(6*area)), int(cy/(6*area)))
}

// convexHull returns the hull vertices of a contour.
func convexHull(points []image.Point) []image.Point {
	if len(points) == 0 {
		return nil
	}

	pv := gocv.NewPointVectorFromPoints(points)
	defer pv.Close()

	hull := gocv.NewMat()
	defer hull.Close()
	gocv.ConvexHull(pv, &hull, true, true)

	out := make([]image.Point, 0, hull.Rows())
	for i := 0; i < hull.Rows(); i++ {
		v := hull.GetVeciAt(i, 0)
		out = append(out, image.Pt(int(v[0]), int(v[1])))
	}
	return out
}

// separated reports whether p lies strictly farther than minDist from
// every accepted point.
func separated(p image.Point, accepted []image.Point, minDist float64) bool {
	for _, q := range accepted {
		if Dist(p, q) <= minDist {
			return false
		}
	}
	return true
}

// push appends one frame's hands to the rolling history, dropping the
// oldest entry once historyDepth is reached.
func (d *HeuristicDetector) push(hands []HandInfo) {
	if len(d.history) >= historyDepth {
		copy(d.history, d.history[1:])
		d.history = d.history[:historyDepth-1]
	}
	d.history = append(d.history, hands)
}
