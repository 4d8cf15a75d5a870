package capture

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"showroom-scene-server/modules/common/model"
)

// MaxUploadBytes - 업로드 파일 최대 크기 (개당)
const MaxUploadBytes = 15 << 20 // 15MB

// MaxMemoryBytes - multipart 파싱 시 메모리 버퍼 한도
const MaxMemoryBytes = 32 << 20 // 32MB

// ReadSeedImage - 단일 이미지 파일 필드를 SeedImage로 변환
// 이미지가 아닌 파일은 거부한다
func ReadSeedImage(r *http.Request, field string) (model.SeedImage, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return model.SeedImage{}, fmt.Errorf("Please select an image file to upload.")
	}
	defer file.Close()

	return readImageFile(file, header)
}

// ReadSeedImages - 복수 이미지 필드를 SeedImage 목록으로 변환
// 하나라도 이미지가 아니면 전체를 거부한다
func ReadSeedImages(r *http.Request, field string) ([]model.SeedImage, error) {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(MaxMemoryBytes); err != nil {
			return nil, fmt.Errorf("Please select image files to upload.")
		}
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, fmt.Errorf("Please select image files to upload.")
	}

	images := make([]model.SeedImage, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("Failed to read uploaded file %q.", header.Filename)
		}

		img, err := readImageFile(file, header)
		file.Close()
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// ReadSpecDocument - 스펙 시트 파일을 SpecDocument로 변환
// 이미지 또는 PDF만 허용하고, 표시용 파일명을 유지한다
func ReadSpecDocument(r *http.Request, field string) (model.SpecDocument, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return model.SpecDocument{}, fmt.Errorf("Please select a specification file to upload.")
	}
	defer file.Close()

	data, mimeType, err := readAndSniff(file, header)
	if err != nil {
		return model.SpecDocument{}, err
	}

	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" {
		return model.SpecDocument{}, fmt.Errorf("Specification files must be an image or a PDF. %q is not supported.", header.Filename)
	}

	return model.SpecDocument{
		Base64:   encodePayload(data),
		MimeType: mimeType,
		Name:     header.Filename,
	}, nil
}

// readImageFile - 파일 내용을 읽고 이미지인지 검증
func readImageFile(file multipart.File, header *multipart.FileHeader) (model.SeedImage, error) {
	data, mimeType, err := readAndSniff(file, header)
	if err != nil {
		return model.SeedImage{}, err
	}

	if !strings.HasPrefix(mimeType, "image/") {
		return model.SeedImage{}, fmt.Errorf("%q is not an image file. Please upload images only.", header.Filename)
	}

	return model.SeedImage{
		Base64:   encodePayload(data),
		MimeType: mimeType,
	}, nil
}

// readAndSniff - 크기 제한을 걸고 읽은 뒤 실제 내용으로 MIME 타입 판별
// 선언된 Content-Type 헤더는 신뢰하지 않는다
func readAndSniff(file multipart.File, header *multipart.FileHeader) ([]byte, string, error) {
	if header.Size > MaxUploadBytes {
		return nil, "", fmt.Errorf("%q exceeds the %dMB upload limit.", header.Filename, MaxUploadBytes>>20)
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("Failed to read uploaded file %q.", header.Filename)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%q is empty.", header.Filename)
	}
	if len(data) > MaxUploadBytes {
		return nil, "", fmt.Errorf("%q exceeds the %dMB upload limit.", header.Filename, MaxUploadBytes>>20)
	}

	mimeType := http.DetectContentType(data)
	// sniffing이 PDF를 못 잡는 경우가 있어 매직 바이트로 보정
	if mimeType == "application/octet-stream" && len(data) > 4 && string(data[:5]) == "%PDF-" {
		mimeType = "application/pdf"
	}
	return data, mimeType, nil
}

func encodePayload(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
