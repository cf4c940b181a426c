package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/GoKB/internal/adapter"
	"github.com/akolanti/GoKB/internal/adapter/utils"
	"github.com/akolanti/GoKB/internal/api"
	"github.com/akolanti/GoKB/internal/domain/kbModel"
)

// SearchHandler godoc
// @Summary      Search the knowledge base
// @Description  Embeds the query and returns the most similar chunks, optionally filtered by chunk metadata. Synchronous.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      api.SearchRequest   true  "Query text, optional top_k and metadata filter"
// @Success      200      {object}  api.SearchResponse  "Ranked matching chunks, best first"
// @Failure      400      {object}  api.JobResponse     "Invalid request data"
// @Failure      500      {object}  api.JobResponse     "Embedding or index failure"
// @Router       /search [post]
func SearchHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.SearchRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Search handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Query == "" {
			logRH.Warn("Bad Search Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "query is required")
			return
		}

		results, err := handlerInstance.kbService.Search(request.Context(), requestData.Query, requestData.TopK, requestData.Filter)
		if err != nil {
			logRH.Error("Search failed", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Search failed")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(requestData.Query, results))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// ListDocumentsHandler godoc
// @Summary      List indexed documents
// @Description  Returns every committed document with its provenance record.
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		writeJsonResponse(w, http.StatusOK, adapter.ToDocumentListResponse(handlerInstance.kbService.ListDocuments()))
	}
}

// GetDocumentHandler godoc
// @Summary      Get one document's record
// @Description  Returns the provenance record for a docId.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentResponse
// @Failure      404  {object}  api.JobResponse "Unknown docId"
// @Router       /documents/{id} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		docID := utils.GetChiURLParam(r, "id")

		rec, found := handlerInstance.kbService.GetDocumentInfo(docID)
		if !found {
			WriteErrorResponse(w, http.StatusNotFound, docID, "Document not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(
			kbModel.DocumentInfo{DocID: docID, DocumentRecord: rec}))
	}
}

// DeleteDocumentHandler godoc
// @Summary      Remove a document
// @Description  Drops the document's chunks from the index and its record from the registry.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DeleteResponse
// @Failure      404  {object}  api.JobResponse "Unknown docId"
// @Failure      500  {object}  api.JobResponse "Index failure"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		docID := utils.GetChiURLParam(r, "id")

		removed, err := handlerInstance.kbService.RemoveDocument(r.Context(), docID)
		if err != nil {
			logRH.Error("Delete failed", "docId", docID, "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, docID, "Delete failed")
			return
		}
		if !removed {
			WriteErrorResponse(w, http.StatusNotFound, docID, "Document not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, api.DeleteResponse{DocId: docID, Removed: true})
	}
}

// StatsHandler godoc
// @Summary      Knowledge base statistics
// @Description  Aggregate counts over the committed documents.
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.StatsResponse
// @Router       /stats [get]
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		writeJsonResponse(w, http.StatusOK, adapter.ToStatsResponse(handlerInstance.kbService.GetStats()))
	}
}
