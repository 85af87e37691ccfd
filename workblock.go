package nchwc

// Axis carries the derived geometric parameters for one spatial
// dimension (height or width): the kernel's receptive-field span, and
// the partition of output positions into left-pad / full / right-pad
// regions.
type Axis struct {
	Input, Output       int
	Kernel, Dilation     int
	Stride               int
	PaddingLeft          int
	PaddingRight         int
	Span                 int
	OutCountFull         int
	OutCountWithLeftPad  int
	OutCountLeftPad      int
	OutCountRightPad     int
}

// buildAxis partitions one spatial axis's output positions into
// left-pad / full / right-pad regions: OutCountFull is computed
// against the unpadded input only, then widened by padding into
// OutCountWithLeftPad. Whenever left padding is present but would
// otherwise claim zero outputs, one output is reassigned from the
// full region to the left-pad region so a caller can always find at
// least one row whose kernel spills into the padded area.
func buildAxis(input, output, kernel, dilation, stride, padLeft, padRight int) (Axis, error) {
	if kernel <= 0 || dilation <= 0 || stride <= 0 {
		return Axis{}, invalidShapef("kernel=%d dilation=%d stride=%d must be positive", kernel, dilation, stride)
	}

	span := dilation*(kernel-1) + 1
	if padLeft < 0 || padRight < 0 {
		return Axis{}, invalidShapef("negative padding: left=%d right=%d", padLeft, padRight)
	}
	if padLeft > span || padRight > span {
		return Axis{}, invalidShapef("padding exceeds kernel span %d: left=%d right=%d", span, padLeft, padRight)
	}

	var outCountFull int
	if input >= span {
		outCountFull = (input-span)/stride + 1
	}

	var outCountWithLeftPad int
	if input+padLeft >= span {
		outCountWithLeftPad = (input+padLeft-span)/stride + 1
	} else {
		outCountWithLeftPad = output
	}

	outCountLeftPad := outCountWithLeftPad - outCountFull
	if outCountLeftPad == 0 && padLeft > 0 {
		outCountLeftPad = 1
		outCountFull--
	}

	outCountRightPad := output - outCountWithLeftPad

	if outCountFull < 0 || outCountLeftPad < 0 || outCountRightPad < 0 {
		return Axis{}, invalidShapef(
			"negative derived count for input=%d output=%d kernel=%d: full=%d leftPad=%d rightPad=%d",
			input, output, kernel, outCountFull, outCountLeftPad, outCountRightPad,
		)
	}
	if outCountLeftPad+outCountFull+outCountRightPad != output {
		return Axis{}, invalidShapef(
			"partition mismatch: leftPad=%d full=%d rightPad=%d sum!=output=%d",
			outCountLeftPad, outCountFull, outCountRightPad, output,
		)
	}

	return Axis{
		Input: input, Output: output,
		Kernel: kernel, Dilation: dilation, Stride: stride,
		PaddingLeft: padLeft, PaddingRight: padRight,
		Span:                span,
		OutCountFull:        outCountFull,
		OutCountWithLeftPad: outCountWithLeftPad,
		OutCountLeftPad:     outCountLeftPad,
		OutCountRightPad:    outCountRightPad,
	}, nil
}

// Shape is the caller-supplied geometry for one Conv or Pool call,
// mirroring the parameter list at the C7 entry points: dimension
// count is fixed at 2 (height, width) per the Non-goal excluding other
// dimensionalities, so Height/Width appear as named fields rather than
// a slice the algorithms would have to bounds-check.
type Shape struct {
	BatchCount     int
	InputChannels  int
	OutputChannels int
	Groups         int

	InputHeight, InputWidth   int
	OutputHeight, OutputWidth int

	KernelHeight, KernelWidth int // 0 means "default to input extent"
	DilationHeight, DilationWidth int // 0 means "default to 1"
	StrideHeight, StrideWidth     int // 0 means "default to 1"

	PaddingTop, PaddingLeft, PaddingBottom, PaddingRight int
}

func (s Shape) withDefaults() Shape {
	if s.KernelHeight == 0 {
		s.KernelHeight = s.InputHeight
	}
	if s.KernelWidth == 0 {
		s.KernelWidth = s.InputWidth
	}
	if s.DilationHeight == 0 {
		s.DilationHeight = 1
	}
	if s.DilationWidth == 0 {
		s.DilationWidth = 1
	}
	if s.StrideHeight == 0 {
		s.StrideHeight = 1
	}
	if s.StrideWidth == 0 {
		s.StrideWidth = 1
	}
	if s.Groups == 0 {
		s.Groups = 1
	}
	return s
}

// WorkBlock is the immutable geometric and scheduling description
// built once per Conv/Pool call and shared read-only across every
// worker. Nothing in a WorkBlock is mutated once Prepare returns;
// per-worker cursors live in the iterator types in iterator.go.
type WorkBlock struct {
	BatchCount     int
	InputChannels  int
	OutputChannels int
	Groups         int
	BlockSize      int

	Height, Width Axis

	InputSize  int
	OutputSize int

	ThreadCount int
}

// InputChannelsPerGroup returns InputChannels/Groups.
func (w *WorkBlock) InputChannelsPerGroup() int { return w.InputChannels / w.Groups }

// OutputChannelsPerGroup returns OutputChannels/Groups.
func (w *WorkBlock) OutputChannelsPerGroup() int { return w.OutputChannels / w.Groups }

// Prepare derives a WorkBlock's geometric parameters from a caller
// shape. requireInputAlignment/requireOutputAlignment are false for
// engines that index the corresponding side's channels individually
// rather than in blocks of BlockSize (depthwise on both sides, the
// NCHW-input engine on its input side).
func Prepare(s Shape, blockSize, threadCount int, requireInputAlignment, requireOutputAlignment bool) (*WorkBlock, error) {
	s = s.withDefaults()

	if threadCount < 1 {
		return nil, invalidShapef("thread count %d must be >= 1", threadCount)
	}
	if s.BatchCount < 0 || s.InputChannels < 0 || s.OutputChannels < 0 {
		return nil, invalidShapef("negative batch/channel count")
	}
	if s.Groups < 1 {
		return nil, invalidShapef("groups %d must be >= 1", s.Groups)
	}
	if s.InputChannels%s.Groups != 0 || s.OutputChannels%s.Groups != 0 {
		return nil, invalidShapef("channels not divisible by groups=%d: in=%d out=%d", s.Groups, s.InputChannels, s.OutputChannels)
	}
	if requireInputAlignment && (s.InputChannels/s.Groups)%blockSize != 0 {
		return nil, invalidShapef("input channels per group %d not divisible by block size %d", s.InputChannels/s.Groups, blockSize)
	}
	if requireOutputAlignment && (s.OutputChannels/s.Groups)%blockSize != 0 {
		return nil, invalidShapef("output channels per group %d not divisible by block size %d", s.OutputChannels/s.Groups, blockSize)
	}

	height, err := buildAxis(s.InputHeight, s.OutputHeight, s.KernelHeight, s.DilationHeight, s.StrideHeight, s.PaddingTop, s.PaddingBottom)
	if err != nil {
		return nil, err
	}
	width, err := buildAxis(s.InputWidth, s.OutputWidth, s.KernelWidth, s.DilationWidth, s.StrideWidth, s.PaddingLeft, s.PaddingRight)
	if err != nil {
		return nil, err
	}

	return &WorkBlock{
		BatchCount:     s.BatchCount,
		InputChannels:  s.InputChannels,
		OutputChannels: s.OutputChannels,
		Groups:         s.Groups,
		BlockSize:      blockSize,
		Height:         height,
		Width:          width,
		InputSize:      s.InputHeight * s.InputWidth,
		OutputSize:     s.OutputHeight * s.OutputWidth,
		ThreadCount:    threadCount,
	}, nil
}
