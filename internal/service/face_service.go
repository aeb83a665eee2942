package service

import (
	"context"
	"fmt"
	"lms_backend/internal/config"
	"lms_backend/internal/util"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// FaceDetector 外部人脸识别能力：从图片中提取 128 维描述子
type FaceDetector interface {
	Describe(ctx context.Context, imageBase64 string) ([]float64, error)
}

type describeRequest struct {
	Image string `json:"image"`
}

type describeResponse struct {
	Descriptor []float64 `json:"descriptor"`
	Error      string    `json:"error,omitempty"`
}

// FaceClient 通过 HTTP 调用人脸识别服务
type FaceClient struct {
	client *resty.Client
}

func NewFaceClient(cfg *config.FaceConfig) *FaceClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.ServiceURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &FaceClient{client: client}
}

func (c *FaceClient) Describe(ctx context.Context, imageBase64 string) ([]float64, error) {
	if imageBase64 == "" {
		return nil, util.Validation("face image is required")
	}

	var out describeResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(describeRequest{Image: imageBase64}).
		SetResult(&out).
		SetError(&out).
		Post("/descriptor")
	if err != nil {
		return nil, fmt.Errorf("face service request failed: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnprocessableEntity:
		return nil, util.ErrFaceNotDetected
	case resp.IsError():
		return nil, fmt.Errorf("face service returned %d: %s", resp.StatusCode(), out.Error)
	case len(out.Descriptor) == 0:
		return nil, util.ErrFaceNotDetected
	}
	return out.Descriptor, nil
}

// FaceMatch 比对结果
type FaceMatch struct {
	IsMatch  bool
	Distance float64
}

// FaceVerifier 按欧氏距离判定是否为同一人，阈值支持热更新
type FaceVerifier struct {
	Detector FaceDetector

	mu        sync.RWMutex
	threshold float64
}

func NewFaceVerifier(detector FaceDetector, threshold float64) *FaceVerifier {
	if threshold <= 0 {
		threshold = config.DefaultFaceThreshold
	}
	return &FaceVerifier{Detector: detector, threshold: threshold}
}

func (v *FaceVerifier) Threshold() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.threshold
}

func (v *FaceVerifier) SetThreshold(t float64) {
	if t <= 0 {
		return
	}
	v.mu.Lock()
	v.threshold = t
	v.mu.Unlock()
}

// Distance 维度不一致时返回 +Inf
func Distance(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Match 距离不超过阈值视为匹配
func (v *FaceVerifier) Match(stored, probe []float64) FaceMatch {
	d := Distance(stored, probe)
	return FaceMatch{IsMatch: d <= v.Threshold(), Distance: d}
}

// Verify 提取探测图片的描述子并与已登记的描述子比对
func (v *FaceVerifier) Verify(ctx context.Context, stored []float64, probeImage string) (FaceMatch, error) {
	probe, err := v.Detector.Describe(ctx, probeImage)
	if err != nil {
		return FaceMatch{}, err
	}
	return v.Match(stored, probe), nil
}
